package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func TestHedgeOrderFillsImmediately(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.PlaceHedgeOrder(7, schema.SideSell, 1000, 25))

	notices := s.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, NoticeFill, notices[0].Type)
	assert.Equal(t, uint64(7), notices[0].OrderID)
	assert.Equal(t, schema.Volume(25), notices[0].Volume)
	assert.True(t, notices[0].Hedge)
	assert.Equal(t, NoticeStatus, notices[1].Type)
	assert.Equal(t, schema.Volume(0), notices[1].Remaining)

	assert.Empty(t, s.Drain())
}

func TestRestingBidCrossesOnSnapshot(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.PlaceOrder(1, schema.SideBuy, 1000, 50, schema.TimeInForceGoodForDay))
	assert.Empty(t, s.Drain())
	assert.Equal(t, 1, s.Resting())

	// Ask above the bid: no trade.
	s.OnSnapshot(schema.Snapshot{AskPrices: [schema.Depth]schema.Price{1100}})
	assert.Empty(t, s.Drain())

	s.OnSnapshot(schema.Snapshot{AskPrices: [schema.Depth]schema.Price{900}})
	notices := s.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, NoticeFill, notices[0].Type)
	assert.Equal(t, schema.Price(1000), notices[0].Price)
	assert.Equal(t, 0, s.Resting())
}

func TestCancelReportsTerminalStatus(t *testing.T) {
	s := NewSim()
	require.NoError(t, s.PlaceOrder(1, schema.SideSell, 1200, 50, schema.TimeInForceGoodForDay))
	require.NoError(t, s.CancelOrder(1))

	notices := s.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeStatus, notices[0].Type)
	assert.Equal(t, schema.Volume(0), notices[0].Remaining)
	assert.Equal(t, 0, s.Resting())

	// Unknown ids are ignored.
	require.NoError(t, s.CancelOrder(99))
	assert.Empty(t, s.Drain())
}

func TestDisconnectedSessionRejectsActions(t *testing.T) {
	s := NewSim()
	s.Disconnect()
	assert.ErrorIs(t, s.PlaceOrder(1, schema.SideBuy, 1000, 50, schema.TimeInForceGoodForDay), ErrSessionDisconnected)
	assert.ErrorIs(t, s.PlaceHedgeOrder(2, schema.SideSell, 1000, 50), ErrSessionDisconnected)
	assert.ErrorIs(t, s.CancelOrder(1), ErrSessionDisconnected)
}
