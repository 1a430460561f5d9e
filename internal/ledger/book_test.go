package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func TestInsertTracksSubmittedVolume(t *testing.T) {
	b := NewBook(schema.InstrumentPrimary)
	b.Insert(Order{ID: 1, Side: schema.SideBuy, Volume: 50, Price: 1000})
	b.Insert(Order{ID: 2, Side: schema.SideSell, Volume: 30, Price: 1100})

	assert.Equal(t, schema.Volume(50), b.submittedBids)
	assert.Equal(t, schema.Volume(30), b.submittedAsks)
	assert.Equal(t, schema.Volume(0), b.exposure)
}

func TestFillMovesSubmittedIntoExposure(t *testing.T) {
	b := NewBook(schema.InstrumentPrimary)
	b.Insert(Order{ID: 1, Side: schema.SideBuy, Volume: 50, Price: 1000})

	filled, ok := b.Fill(1, 1000, 20, 0.25)
	require.True(t, ok)
	assert.Equal(t, schema.Volume(20), filled.Volume)
	assert.Equal(t, schema.Volume(20), b.exposure)
	assert.Equal(t, schema.Volume(30), b.submittedBids)
	assert.Equal(t, schema.Notional(-20000), b.notional)

	// Partial fills keep the order resting with the remaining size.
	o, ok := b.Find(1)
	require.True(t, ok)
	assert.Equal(t, schema.Volume(30), o.Volume)

	_, ok = b.Fill(1, 1000, 30, 0.5)
	require.True(t, ok)
	_, ok = b.Find(1)
	assert.False(t, ok)
	assert.Equal(t, schema.Volume(50), b.exposure)
	assert.Equal(t, schema.Volume(0), b.submittedBids)
}

func TestSellFillReducesExposureAndAddsNotional(t *testing.T) {
	b := NewBook(schema.InstrumentPrimary)
	b.Insert(Order{ID: 5, Side: schema.SideSell, Volume: 10, Price: 1200})

	_, ok := b.Fill(5, 1200, 10, 1.0)
	require.True(t, ok)
	assert.Equal(t, schema.Volume(-10), b.exposure)
	assert.Equal(t, schema.Notional(12000), b.notional)
}

func TestCloseReleasesSubmittedWithoutExposure(t *testing.T) {
	b := NewBook(schema.InstrumentPrimary)
	b.Insert(Order{ID: 1, Side: schema.SideBuy, Volume: 50, Price: 1000})

	o, ok := b.Close(1)
	require.True(t, ok)
	assert.Equal(t, schema.Volume(50), o.Volume)
	assert.Equal(t, schema.Volume(0), b.submittedBids)
	assert.Equal(t, schema.Volume(0), b.exposure)

	_, ok = b.Close(1)
	assert.False(t, ok)
}

func TestMarkCancelledKeepsOrderResting(t *testing.T) {
	b := NewBook(schema.InstrumentPrimary)
	b.Insert(Order{ID: 1, Side: schema.SideBuy, Volume: 50, Price: 1000})

	require.True(t, b.MarkCancelled(1))
	assert.False(t, b.MarkCancelled(99))

	_, ok := b.Find(1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), b.Stats().OrdersCancelled)
}

func TestAggregatorSumsAcrossBooks(t *testing.T) {
	a := NewAggregator(schema.InstrumentPrimary)
	a.Book("maker").Insert(Order{ID: 1, Side: schema.SideBuy, Volume: 50, Price: 1000})
	a.Book("chaser").Insert(Order{ID: 2, Side: schema.SideSell, Volume: 20, Price: 1100})

	_, ok := a.Fill(1, 1000, 50, 0.25)
	require.True(t, ok)
	_, ok = a.Fill(2, 1100, 5, 0.25)
	require.True(t, ok)

	assert.Equal(t, schema.Volume(45), a.Exposure())
	assert.Equal(t, schema.Volume(0), a.SubmittedBids())
	assert.Equal(t, schema.Volume(15), a.SubmittedAsks())
	assert.Equal(t, schema.Notional(-50000+5500), a.Notional())

	o, name, ok := a.Find(2)
	require.True(t, ok)
	assert.Equal(t, "chaser", name)
	assert.Equal(t, schema.Volume(15), o.Volume)
}
