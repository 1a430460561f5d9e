// Package trader is the decision core: it turns order book snapshots into
// quotes, cancels stale orders, flattens net exposure through the hedge
// instrument, and keeps ledger state consistent under asynchronous fill and
// close notifications. Everything runs on one event-driven context; no
// handler suspends.
package trader

import (
	"errors"

	"github.com/yanun0323/logs"

	"main/internal/exchange"
	"main/internal/fairvalue"
	"main/internal/ledger"
	"main/internal/match"
	"main/internal/obs"
	"main/internal/ratelimit"
	"main/internal/schema"
	"main/internal/session"
	"main/internal/signal"
	"main/internal/stream"
)

// ErrBookOrdering reports a primary-instrument snapshot arriving first for a
// new sequence number. The hedge instrument's book leads every tick.
var ErrBookOrdering = errors.New("primary book arrived before hedge book for a new sequence")

// Trader owns all mutable session state. It is not safe for concurrent use;
// the surrounding loop delivers one event at a time.
type Trader struct {
	cfg     Config
	sess    *session.Session
	limiter *ratelimit.Limiter
	matcher *match.Matcher

	primaryBooks *ledger.Aggregator
	hedgeBooks   *ledger.Aggregator

	estimator *fairvalue.Estimator
	midScore  *fairvalue.MidScore
	momentum  *signal.Momentum

	exch    exchange.Session
	journal Journal
	metrics *obs.Metrics

	bidHistory      *stream.Stream
	askHistory      *stream.Stream
	spreadHistory   *stream.Stream
	networthHistory *stream.Stream

	lastHedgeBook schema.Snapshot
	haveHedgeBook bool
	lastSequence  uint64
}

// New creates a trader bound to the given exchange session. journal and
// metrics may be nil.
func New(cfg Config, exch exchange.Session, journal Journal, metrics *obs.Metrics) *Trader {
	if journal == nil {
		journal = NopJournal{}
	}
	matcher := match.New()
	return &Trader{
		cfg:     cfg,
		sess:    session.New(cfg.ClockStep),
		limiter: ratelimit.New(cfg.RateCapacity, cfg.RateWindow),
		matcher: matcher,

		primaryBooks: ledger.NewAggregator(schema.InstrumentPrimary),
		hedgeBooks:   ledger.NewAggregator(schema.InstrumentHedge),

		estimator: fairvalue.NewEstimator(cfg.TickSize, cfg.OutlierThreshold),
		midScore:  fairvalue.NewMidScore(),
		momentum: signal.NewMomentum(matcher, signal.Config{
			Lookback:  cfg.SignalLookback,
			MinTrades: cfg.SignalMinTrades,
		}),

		exch:    exch,
		journal: journal,
		metrics: metrics,

		bidHistory:      stream.New(),
		askHistory:      stream.New(),
		spreadHistory:   stream.New(),
		networthHistory: stream.New(),
	}
}

// OnOrderBook handles one order book snapshot. The clock advances once per
// sequence change, and the hedge instrument's book must lead it.
func (t *Trader) OnOrderBook(snap schema.Snapshot) error {
	if snap.Sequence != t.lastSequence {
		if snap.Instrument != schema.InstrumentHedge {
			return ErrBookOrdering
		}
		t.sess.Clock.Advance()
		t.lastSequence = snap.Sequence
	}
	t.metrics.IncBook()
	now := t.sess.Clock.Now()

	if snap.Instrument == schema.InstrumentHedge {
		t.lastHedgeBook = snap
		t.haveHedgeBook = true
	}

	// No estimate means the book is too thin to trust; skip the tick.
	fair, ok := t.estimator.Estimate(snap)
	if !ok {
		return nil
	}
	if snap.Instrument == schema.InstrumentPrimary {
		t.midScore.SetEstimate(fair)
	}
	t.journal.Price(now, schema.PriceRecord{Instrument: snap.Instrument, Mid: fair})
	t.journal.Book(now, schema.BookRecord{
		Snapshot:  snap,
		FairValue: fair,
		Spread:    snap.AskPrices[0] - snap.BidPrices[0],
	})

	if snap.Instrument == schema.InstrumentHedge || !t.haveHedgeBook {
		return nil
	}

	// Quotes straddle the hedge instrument's top-of-book mid; the fair value
	// above only gates processing.
	mid := t.lastHedgeBook.Mid()
	t.makeMarket(mid, snap)

	networth := float64(t.primaryBooks.Notional()+t.hedgeBooks.Notional()) +
		float64(mid)*float64(t.primaryBooks.Exposure()+t.hedgeBooks.Exposure())
	t.networthHistory.Push(networth)
	return nil
}

// OnTradeTicks handles an informational trade tick snapshot. Primary ticks
// grade the fair value estimator.
func (t *Trader) OnTradeTicks(snap schema.Snapshot) {
	t.metrics.IncTradeTick()
	t.journal.TradeTicks(t.sess.Clock.Now(), schema.BookRecord{Snapshot: snap})
	if snap.Instrument == schema.InstrumentPrimary {
		t.midScore.ObserveTicks(snap.AskPrices, snap.AskVolumes)
		t.midScore.ObserveTicks(snap.BidPrices, snap.BidVolumes)
	}
}

// OnOrderFilled handles a fill notification for a primary-instrument order.
func (t *Trader) OnOrderFilled(id uint64, price schema.Price, volume schema.Volume) {
	t.fill(id, price, volume)
}

// OnHedgeFilled handles a fill notification for a hedge-instrument order.
func (t *Trader) OnHedgeFilled(id uint64, price schema.Price, volume schema.Volume) {
	t.fill(id, price, volume)
}

// OnOrderStatus handles an order status notification. A remaining volume of
// zero is terminal and closes the order.
func (t *Trader) OnOrderStatus(id uint64, fillVolume, remaining schema.Volume, fees schema.Notional) {
	if remaining == 0 {
		t.close(id)
	}
}

// OnError handles an exchange error notification. A nonzero id is terminal
// for that order.
func (t *Trader) OnError(id uint64, message string) {
	logs.Errorf("error with order %d: %s", id, message)
	if id != 0 {
		t.close(id)
	}
}

// OnDisconnect reports the session metrics. The trader keeps no
// unrecoverable state; the next snapshot resumes decision-making.
func (t *Trader) OnDisconnect() {
	logs.Info("execution connection lost")
	t.report()
}

func (t *Trader) fill(id uint64, price schema.Price, volume schema.Volume) {
	now := t.sess.Clock.Now()

	// Capture side and instrument before mutation.
	order, _, ok := t.primaryBooks.Find(id)
	if !ok {
		if order, _, ok = t.hedgeBooks.Find(id); !ok {
			return
		}
	}

	if _, done := t.primaryBooks.Fill(id, price, volume, now); !done {
		t.hedgeBooks.Fill(id, price, volume, now)
	}
	t.matcher.Push(schema.FillEvent{
		OrderID:    id,
		Instrument: order.Instrument,
		Side:       order.Side,
		Volume:     volume,
		Price:      price,
		Time:       now,
	})
	t.metrics.AddLotsFilled(int64(volume))
	t.journal.OrderFilled(now, schema.OrderRecord{
		OrderID:    id,
		Instrument: order.Instrument,
		Side:       order.Side,
		Volume:     volume,
		Price:      price,
	})
	logs.Infof("order %d filled for %d lots at %d", id, volume, price)

	if order.Instrument == schema.InstrumentPrimary {
		t.hedge()
	}
}

func (t *Trader) close(id uint64) {
	if _, ok := t.primaryBooks.Close(id); ok {
		return
	}
	t.hedgeBooks.Close(id)
}

func (t *Trader) report() {
	snap := t.metrics.Snapshot()
	logs.Infof("session: %d books, %d ticks, %d orders sent, %d cancels, %d rejected, %d rate limited",
		snap.Books, snap.TradeTicks, snap.OrdersSent, snap.OrdersCancelled, snap.OrdersRejected, snap.RateLimited)

	var lots schema.Volume
	var cancels, sent int64
	for _, agg := range []*ledger.Aggregator{t.primaryBooks, t.hedgeBooks} {
		for name, st := range agg.Stats() {
			logs.Infof("book %s: exposure %d, %d lots filled, %d/%d orders cancelled",
				name, st.Exposure, st.LotsFilled, st.OrdersCancelled, st.OrdersSent)
			lots += st.LotsFilled
			cancels += st.OrdersCancelled
			sent += st.OrdersSent
		}
	}

	profit := t.matcher.RealizedProfit()
	logs.Infof("realized profit %d over %d lots", profit, lots)
	if lots > 0 {
		logs.Infof("profit per lot %.4f", float64(profit)/float64(lots))
	}
	if sent > 0 {
		logs.Infof("cancel ratio %.4f", float64(cancels)/float64(sent))
	}
	if mean, ok := t.networthHistory.Mean(stream.All); ok {
		sd, _ := t.networthHistory.StdDev(stream.All)
		logs.Infof("networth mean %.2f stddev %.2f", mean, sd)
	}
	if score, ok := t.midScore.Score(); ok {
		logs.Infof("fair value score %.4f (volume-weighted distance per lot)", score)
	}
}

// RealizedProfit returns the session's matched profit.
func (t *Trader) RealizedProfit() schema.Notional {
	return t.matcher.RealizedProfit()
}

// Networth returns the most recent net worth observation.
func (t *Trader) Networth() (float64, bool) {
	return t.networthHistory.Back()
}
