package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"main/internal/schema"
)

func fill(side schema.Side, volume schema.Volume, price schema.Price) schema.FillEvent {
	return schema.FillEvent{
		Instrument: schema.InstrumentPrimary,
		Side:       side,
		Volume:     volume,
		Price:      price,
	}
}

func TestFullMatch(t *testing.T) {
	m := New()
	m.Push(fill(schema.SideBuy, 10, 100))
	m.Push(fill(schema.SideSell, 10, 105))

	assert.Equal(t, schema.Notional(50), m.RealizedProfit())
	assert.Equal(t, schema.Volume(0), m.UnmatchedBids())
	assert.Equal(t, schema.Volume(0), m.UnmatchedAsks())
}

func TestPartialMatchKeepsRemainderAtFront(t *testing.T) {
	m := New()
	m.Push(fill(schema.SideBuy, 10, 100))
	m.Push(fill(schema.SideSell, 4, 105))

	assert.Equal(t, schema.Notional(20), m.RealizedProfit())
	assert.Equal(t, schema.Volume(6), m.UnmatchedBids())

	// A newer, cheaper bid must not jump the queue: the old remainder is
	// matched first at its own price.
	m.Push(fill(schema.SideBuy, 5, 90))
	m.Push(fill(schema.SideSell, 6, 110))

	// 6 lots against the 100 bid: +60.
	assert.Equal(t, schema.Notional(80), m.RealizedProfit())
	assert.Equal(t, schema.Volume(5), m.UnmatchedBids())
}

func TestOneFillMatchesManyOpposites(t *testing.T) {
	m := New()
	m.Push(fill(schema.SideSell, 3, 101))
	m.Push(fill(schema.SideSell, 3, 102))
	m.Push(fill(schema.SideBuy, 6, 100))

	// 3*(101-100) + 3*(102-100)
	assert.Equal(t, schema.Notional(9), m.RealizedProfit())
	assert.Equal(t, schema.Volume(0), m.UnmatchedAsks())
}

func TestMatchLossIsNegative(t *testing.T) {
	m := New()
	m.Push(fill(schema.SideBuy, 5, 110))
	m.Push(fill(schema.SideSell, 5, 100))

	assert.Equal(t, schema.Notional(-50), m.RealizedProfit())
}

func TestFillLogKeepsOriginalVolumes(t *testing.T) {
	m := New()
	m.Push(fill(schema.SideBuy, 10, 100))
	m.Push(fill(schema.SideSell, 4, 105))

	fills := m.Fills()
	assert.Len(t, fills, 2)
	assert.Equal(t, schema.Volume(10), fills[0].Volume)
	assert.Equal(t, schema.Volume(4), fills[1].Volume)
}
