package trader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/exchange"
	"main/internal/ledger"
	"main/internal/schema"
)

// recordingJournal captures book records for inspection.
type recordingJournal struct {
	NopJournal
	books []schema.BookRecord
}

func (r *recordingJournal) Book(now float64, rec schema.BookRecord) {
	r.books = append(r.books, rec)
}

func newTestTrader(t *testing.T) (*Trader, *exchange.Sim) {
	t.Helper()
	sim := exchange.NewSim()
	return New(DefaultConfig(), sim, nil, nil), sim
}

func book(instrument schema.Instrument, seq uint64, bid, ask schema.Price, volume schema.Volume) schema.Snapshot {
	return schema.Snapshot{
		Instrument: instrument,
		Sequence:   seq,
		BidPrices:  [schema.Depth]schema.Price{bid},
		BidVolumes: [schema.Depth]schema.Volume{volume},
		AskPrices:  [schema.Depth]schema.Price{ask},
		AskVolumes: [schema.Depth]schema.Volume{volume},
	}
}

func tick(t *testing.T, tr *Trader, seq uint64, bid, ask schema.Price) {
	t.Helper()
	require.NoError(t, tr.OnOrderBook(book(schema.InstrumentHedge, seq, bid, ask, 10)))
	require.NoError(t, tr.OnOrderBook(book(schema.InstrumentPrimary, seq, bid, ask, 10)))
}

func TestFirstTickQuotesAtIntervalEdges(t *testing.T) {
	tr, sim := newTestTrader(t)

	// Thin book: priority volume is never reached, so quotes fall back to
	// the outer interval edges around the hedge mid of 10000.
	tick(t, tr, 1, 9900, 10100)

	assert.Equal(t, schema.Volume(50), tr.primaryBooks.SubmittedBids())
	assert.Equal(t, schema.Volume(50), tr.primaryBooks.SubmittedAsks())
	assert.Equal(t, 2, sim.Resting())

	lastBid, ok := tr.bidHistory.Back()
	require.True(t, ok)
	assert.Equal(t, 9500.0, lastBid)
	lastAsk, ok := tr.askHistory.Back()
	require.True(t, ok)
	assert.Equal(t, 10500.0, lastAsk)
}

func TestPrimaryBookBeforeHedgeIsAnError(t *testing.T) {
	tr, _ := newTestTrader(t)
	err := tr.OnOrderBook(book(schema.InstrumentPrimary, 1, 9900, 10100, 10))
	assert.ErrorIs(t, err, ErrBookOrdering)
}

func TestClockAdvancesOncePerSequence(t *testing.T) {
	tr, _ := newTestTrader(t)
	tick(t, tr, 1, 9900, 10100)
	assert.Equal(t, 0.25, tr.sess.Clock.Now())
	tick(t, tr, 2, 9900, 10100)
	assert.Equal(t, 0.5, tr.sess.Clock.Now())
}

func TestComputeQuotesStaysInsideBand(t *testing.T) {
	tr, _ := newTestTrader(t)
	snap := book(schema.InstrumentPrimary, 1, 9900, 10100, 10)

	mid := schema.Price(10000)
	bid, ask := tr.computeQuotes(mid, snap)
	assert.Less(t, bid, ask)
	assert.GreaterOrEqual(t, bid, mid-tr.cfg.MaxSpread)
	assert.LessOrEqual(t, ask, mid+tr.cfg.MaxSpread)
	assert.Equal(t, mid-tr.cfg.MaxSpread, bid)
	assert.Equal(t, mid+tr.cfg.MaxSpread, ask)
}

func TestComputeQuotesTargetsPriority(t *testing.T) {
	tr, _ := newTestTrader(t)
	// Best levels alone cross the priority volume, so the priority price is
	// the best price, clamped into the spread band.
	snap := book(schema.InstrumentPrimary, 1, 9900, 10100, 200)

	bid, ask := tr.computeQuotes(10000, snap)
	assert.Equal(t, schema.Price(9850), bid)
	assert.Equal(t, schema.Price(10150), ask)
}

func TestComputeQuotesSkewsOnMomentum(t *testing.T) {
	tr, _ := newTestTrader(t)
	snap := book(schema.InstrumentPrimary, 1, 9900, 10100, 200)

	// Two recent sell-side fills: an uptrend chases the ask harder.
	tr.matcher.Push(schema.FillEvent{Side: schema.SideSell, Volume: 1, Price: 10000, Time: 0})
	tr.matcher.Push(schema.FillEvent{Side: schema.SideSell, Volume: 1, Price: 10000, Time: 0})

	bid, ask := tr.computeQuotes(10000, snap)
	assert.Equal(t, schema.Price(9850+100), bid)
	assert.Equal(t, schema.Price(10150+300), ask)
	assert.Less(t, bid, ask)
}

func TestStaleAskCancelledWhenPriceMovesUp(t *testing.T) {
	tr, sim := newTestTrader(t)
	tick(t, tr, 1, 9900, 10100)

	// Mid jumps 1000 up: the resting ask at 10500 is now more than the
	// allowed slippage behind the new ask and must be pulled.
	tick(t, tr, 2, 10900, 11100)

	var cancels int64
	for _, st := range tr.primaryBooks.Stats() {
		cancels += st.OrdersCancelled
	}
	assert.Equal(t, int64(1), cancels)

	// The cancel freed one lot of budget, so a one-lot replacement ask went
	// out alongside the doomed 50. The terminal status then releases the
	// cancelled order's submitted volume.
	for _, n := range sim.Drain() {
		if n.Type == exchange.NoticeStatus && n.Remaining == 0 {
			tr.OnOrderStatus(n.OrderID, n.Volume, n.Remaining, 0)
		}
	}
	assert.Equal(t, schema.Volume(1), tr.primaryBooks.SubmittedAsks())
}

func TestSendClampsToPositionLimit(t *testing.T) {
	tr, _ := newTestTrader(t)

	require.True(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 1000, 10000))
	assert.Equal(t, tr.cfg.PositionLimit, tr.primaryBooks.SubmittedBids())

	// Exposure plus submitted volume is already at the limit.
	assert.False(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 1, 10000))
}

func TestSendRejectsInvalidPrice(t *testing.T) {
	tr, _ := newTestTrader(t)
	assert.False(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 10, 0))
	assert.False(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 10, tr.cfg.MaxPrice+1))
	assert.Equal(t, schema.Volume(0), tr.primaryBooks.SubmittedBids())
}

func TestSendRoundsPriceToTick(t *testing.T) {
	tr, _ := newTestTrader(t)
	require.True(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 10, 10049))

	order, _, ok := tr.primaryBooks.Find(1)
	require.True(t, ok)
	assert.Equal(t, schema.Price(10000), order.Price)
}

func TestUnknownFillIsIgnored(t *testing.T) {
	tr, _ := newTestTrader(t)
	tr.OnOrderFilled(42, 10000, 10)
	assert.Equal(t, schema.Volume(0), tr.primaryBooks.Exposure())
	assert.Empty(t, tr.matcher.Fills())
}

func TestErrorNotificationClosesOrder(t *testing.T) {
	tr, _ := newTestTrader(t)
	require.True(t, tr.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, 10, 10000))

	tr.OnError(1, "order rejected by exchange")
	assert.Equal(t, schema.Volume(0), tr.primaryBooks.SubmittedBids())

	// Id zero is a session-level error, not tied to an order.
	tr.OnError(0, "session warning")
}

func TestFillTriggersHedgeThatFlattensExposure(t *testing.T) {
	tr, sim := newTestTrader(t)

	// Warm up past the hedge threshold: five ticks at 0.25 each.
	for seq := uint64(1); seq <= 5; seq++ {
		tick(t, tr, seq, 9900, 10100)
	}
	require.Greater(t, tr.sess.Clock.Now(), tr.cfg.HedgeWarmup)
	sim.Drain()

	// The resting bid from the first tick fills in full.
	tr.OnOrderFilled(1, 9500, 50)
	assert.Equal(t, schema.Volume(50), tr.primaryBooks.Exposure())

	// The hedge order fills immediately and flattens the net position.
	for _, n := range sim.Drain() {
		switch n.Type {
		case exchange.NoticeFill:
			require.True(t, n.Hedge)
			assert.Equal(t, schema.Price(10400), n.Price)
			assert.Equal(t, schema.Volume(50), n.Volume)
			tr.OnHedgeFilled(n.OrderID, n.Price, n.Volume)
		case exchange.NoticeStatus:
			tr.OnOrderStatus(n.OrderID, n.Volume, n.Remaining, 0)
		}
	}
	assert.Equal(t, schema.Volume(-50), tr.hedgeBooks.Exposure())
	assert.Equal(t, schema.Volume(0), tr.primaryBooks.Exposure()+tr.hedgeBooks.Exposure())

	// Buy at 9500, sell at 10400, 50 lots matched.
	assert.Equal(t, schema.Notional(45000), tr.RealizedProfit())
}

func TestHedgeSkippedDuringWarmup(t *testing.T) {
	tr, sim := newTestTrader(t)
	tick(t, tr, 1, 9900, 10100)
	sim.Drain()

	tr.OnOrderFilled(1, 9500, 50)
	assert.Empty(t, sim.Drain())
	assert.Equal(t, int64(0), tr.hedgeBooks.Stats()[bookHedge].OrdersSent)
}

func TestQuoteInsideMinHalfSpreadCancelled(t *testing.T) {
	tr, _ := newTestTrader(t)
	maker := tr.primaryBooks.Book(bookMaker)

	// New quote prices sit at the resting prices, so slippage is zero and
	// only the half-spread rule can pull an order.
	maker.Insert(ledger.Order{ID: 1, Instrument: schema.InstrumentPrimary, Side: schema.SideBuy, Volume: 50, Price: 9960})
	maker.Insert(ledger.Order{ID: 2, Instrument: schema.InstrumentPrimary, Side: schema.SideBuy, Volume: 50, Price: 9940})
	maker.Insert(ledger.Order{ID: 3, Instrument: schema.InstrumentPrimary, Side: schema.SideSell, Volume: 50, Price: 10040})

	bids, asks := tr.detectStaleOrders(10000, 9950, 10050)

	// 40 off the mid is inside the 50 half-spread on both sides; 60 is not.
	assert.Equal(t, schema.Volume(1), bids)
	assert.Equal(t, schema.Volume(1), asks)
	assert.Equal(t, int64(2), maker.Stats().OrdersCancelled)
}

func TestCrossedQuotesForcedApart(t *testing.T) {
	// A passive skew larger than the full spread band crosses the quotes;
	// the guard walks the bid back under the ask.
	cfg := DefaultConfig()
	cfg.SkewChase = 100
	cfg.SkewPassive = 500
	tr := New(cfg, exchange.NewSim(), nil, nil)

	tr.matcher.Push(schema.FillEvent{Side: schema.SideSell, Volume: 1, Price: 10000, Time: 0})
	tr.matcher.Push(schema.FillEvent{Side: schema.SideSell, Volume: 1, Price: 10000, Time: 0})

	snap := book(schema.InstrumentPrimary, 1, 9950, 10050, 200)
	bid, ask := tr.computeQuotes(10000, snap)

	// Priority quotes 9850/10150, uptrend skew +500/+100 crosses them.
	assert.Equal(t, schema.Price(10250), ask)
	assert.Equal(t, ask-cfg.TickSize, bid)
	assert.Less(t, bid, ask)
}

func TestBookRecordCarriesTopSpread(t *testing.T) {
	rec := &recordingJournal{}
	tr := New(DefaultConfig(), exchange.NewSim(), rec, nil)

	require.NoError(t, tr.OnOrderBook(book(schema.InstrumentHedge, 1, 9900, 10100, 10)))

	require.Len(t, rec.books, 1)
	assert.Equal(t, schema.Price(200), rec.books[0].Spread)
	assert.Equal(t, schema.Price(10000), rec.books[0].FairValue)
}
