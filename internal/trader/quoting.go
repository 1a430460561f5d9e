package trader

import (
	"github.com/yanun0323/logs"

	"main/internal/ledger"
	"main/internal/schema"
	"main/internal/signal"
)

const (
	bookMaker = "maker"
	bookHedge = "hedge"
)

// computeQuotes produces the target bid and ask around the given mid. Stage
// one targets a queue priority inside the configured spread band; stage two
// skews both quotes toward an active momentum signal, harder on the side
// being chased. The result always satisfies bid < ask inside
// [mid-MaxSpread, mid+MaxSpread].
func (t *Trader) computeQuotes(mid schema.Price, snap schema.Snapshot) (schema.Price, schema.Price) {
	bidLow, bidHigh := mid-t.cfg.MaxSpread, mid-t.cfg.MinSpread
	askLow, askHigh := mid+t.cfg.MinSpread, mid+t.cfg.MaxSpread

	bid := bidLow
	if p := priorityPrice(snap.BidPrices, snap.BidVolumes, t.cfg.PriorityVolume); p != 0 {
		bid = clampPrice(p, bidLow, bidHigh)
	}
	ask := askHigh
	if p := priorityPrice(snap.AskPrices, snap.AskVolumes, t.cfg.PriorityVolume); p != 0 {
		ask = clampPrice(p, askLow, askHigh)
	}

	now := t.sess.Clock.Now()
	switch sig := t.momentum.Evaluate(now); sig {
	case signal.UpTrend:
		bid += t.cfg.SkewPassive
		ask += t.cfg.SkewChase
		t.journal.Signal(now, schema.SignalRecord{Name: "momentum", Value: sig.String()})
	case signal.DownTrend:
		bid -= t.cfg.SkewChase
		ask -= t.cfg.SkewPassive
		t.journal.Signal(now, schema.SignalRecord{Name: "momentum", Value: sig.String()})
	}

	// The skew may not push a quote outside the spread band.
	bid = clampPrice(bid, mid-t.cfg.MaxSpread, mid+t.cfg.MaxSpread)
	ask = clampPrice(ask, mid-t.cfg.MaxSpread, mid+t.cfg.MaxSpread)
	if bid >= ask {
		bid = ask - t.cfg.TickSize
	}

	t.spreadHistory.Push(float64(ask - bid))
	t.bidHistory.Push(float64(bid))
	t.askHistory.Push(float64(ask))
	return bid, ask
}

// priorityPrice walks cumulative volume outward from the best level and
// returns the price of the level just before the threshold is crossed. Zero
// means no level reached the threshold.
func priorityPrice(prices [schema.Depth]schema.Price, volumes [schema.Depth]schema.Volume, threshold schema.Volume) schema.Price {
	var cumulative schema.Volume
	for i := 0; i < schema.Depth; i++ {
		cumulative += volumes[i]
		if cumulative >= threshold {
			if i == 0 {
				return prices[0]
			}
			return prices[i-1]
		}
	}
	return 0
}

// detectStaleOrders cancels resting quotes that drifted too far behind the
// new price, or sit too close to the mid. Returns per-side cancel counts;
// only rate-accepted cancels count.
func (t *Trader) detectStaleOrders(mid, bidPrice, askPrice schema.Price) (schema.Volume, schema.Volume) {
	var bidsCancelled, asksCancelled schema.Volume

	if bidPrice != 0 {
		for _, order := range t.primaryBooks.RestingBids() {
			if order.Price-bidPrice > t.cfg.AllowedSlippage || mid-order.Price < t.cfg.MinHalfSpread {
				if t.cancel(order.ID) {
					bidsCancelled++
				}
			}
		}
	}
	if askPrice != 0 {
		for _, order := range t.primaryBooks.RestingAsks() {
			if askPrice-order.Price > t.cfg.AllowedSlippage || order.Price-mid < t.cfg.MinHalfSpread {
				if t.cancel(order.ID) {
					asksCancelled++
				}
			}
		}
	}
	return bidsCancelled, asksCancelled
}

// makeMarket computes quotes, retires stale ones, and replaces them. Each
// side's size is bounded by the outstanding-order budget, credited with the
// cancels from this pass.
func (t *Trader) makeMarket(mid schema.Price, snap schema.Snapshot) {
	bidPrice, askPrice := t.computeQuotes(mid, snap)
	bidsCancelled, asksCancelled := t.detectStaleOrders(mid, bidPrice, askPrice)

	bidSize := minVolume(t.cfg.LotSize, t.cfg.MaxOutstanding+bidsCancelled-t.primaryBooks.SubmittedBids())
	askSize := minVolume(t.cfg.LotSize, t.cfg.MaxOutstanding+asksCancelled-t.primaryBooks.SubmittedAsks())

	t.send(bookMaker, schema.InstrumentPrimary, schema.SideBuy, bidSize, bidPrice)
	t.send(bookMaker, schema.InstrumentPrimary, schema.SideSell, askSize, askPrice)
}

// hedge flattens net exposure across both instruments with one offsetting
// hedge-instrument order priced off the last quoted same-direction price.
// Skipped during warm-up while the quote history is still unreliable.
func (t *Trader) hedge() {
	total := t.primaryBooks.Exposure() + t.hedgeBooks.Exposure()
	if total == 0 {
		return
	}
	side := schema.SideSell
	if total < 0 {
		side = schema.SideBuy
		total = -total
	}

	lastBid, okBid := t.bidHistory.Back()
	lastAsk, okAsk := t.askHistory.Back()
	if !okBid || !okAsk {
		return
	}
	var price schema.Price
	if side == schema.SideBuy {
		price = schema.Price(lastBid) + t.cfg.HedgeSpread
	} else {
		price = schema.Price(lastAsk) - t.cfg.HedgeSpread
	}

	if t.sess.Clock.Now() > t.cfg.HedgeWarmup {
		t.send(bookHedge, schema.InstrumentHedge, side, total, price)
	}
}

// send is the shared gate for all outbound orders: it validates the price,
// clamps the size to the remaining position capacity, rounds to the tick,
// and only then spends rate budget. A false return means nothing left the
// process.
func (t *Trader) send(book string, instrument schema.Instrument, side schema.Side, size schema.Volume, price schema.Price) bool {
	now := t.sess.Clock.Now()

	if price < t.cfg.MinPrice || price > t.cfg.MaxPrice {
		logs.Errorf("order rejected: price %d outside exchange bounds", price)
		t.metrics.IncOrderRejected()
		return false
	}

	agg := t.primaryBooks
	if instrument == schema.InstrumentHedge {
		agg = t.hedgeBooks
	}
	if side == schema.SideBuy {
		size = minVolume(size, t.cfg.PositionLimit-agg.Exposure()-agg.SubmittedBids())
	} else {
		size = minVolume(size, agg.Exposure()-agg.SubmittedAsks()+t.cfg.PositionLimit)
	}
	if size <= 0 {
		logs.Errorf("order rejected: no capacity at price %d", price)
		t.metrics.IncOrderRejected()
		return false
	}

	price = (price + t.cfg.TickSize/2) / t.cfg.TickSize * t.cfg.TickSize

	if !t.limiter.TrySend(now) {
		t.metrics.IncRateLimited()
		return false
	}

	id := t.sess.IDs.Next()
	order := ledger.Order{
		ID:         id,
		Instrument: instrument,
		Side:       side,
		Volume:     size,
		Price:      price,
		Time:       now,
	}
	agg.Book(book).Insert(order)

	var err error
	if instrument == schema.InstrumentHedge {
		err = t.exch.PlaceHedgeOrder(id, side, price, size)
	} else {
		err = t.exch.PlaceOrder(id, side, price, size, schema.TimeInForceGoodForDay)
	}
	if err != nil {
		logs.Errorf("place order %d: %+v", id, err)
	}

	t.journal.OrderSent(now, schema.OrderRecord{
		OrderID:    id,
		Instrument: instrument,
		Side:       side,
		Volume:     size,
		Price:      price,
	})
	t.metrics.IncOrderSent()
	logs.Infof("%s order %d sent at %d for %d lots in %s", side, id, price, size, instrument)
	return true
}

// cancel spends rate budget and asks the exchange to pull the order. The
// order stays in its book until the terminal status arrives.
func (t *Trader) cancel(id uint64) bool {
	now := t.sess.Clock.Now()
	if !t.limiter.TrySend(now) {
		t.metrics.IncRateLimited()
		return false
	}

	if err := t.exch.CancelOrder(id); err != nil {
		logs.Errorf("cancel order %d: %+v", id, err)
	}
	if !t.primaryBooks.MarkCancelled(id) {
		t.hedgeBooks.MarkCancelled(id)
	}

	t.journal.OrderCancelled(now, schema.OrderRecord{OrderID: id})
	t.metrics.IncOrderCancelled()
	logs.Infof("order %d cancelled", id)
	return true
}

func minVolume(a, b schema.Volume) schema.Volume {
	if a < b {
		return a
	}
	return b
}

func clampPrice(v, low, high schema.Price) schema.Price {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
