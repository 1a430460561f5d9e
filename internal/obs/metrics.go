// Package obs collects lightweight session counters and latency stats. All
// methods are nil-safe so instrumentation can be left unwired in tests.
package obs

import (
	"sync/atomic"
	"time"
)

// Metrics counts session activity.
type Metrics struct {
	books           uint64
	tradeTicks      uint64
	ordersSent      uint64
	lotsFilled      uint64
	ordersCancelled uint64
	ordersRejected  uint64
	rateLimited     uint64
	journalDrops    uint64
	journalClosed   uint64

	bookHandling LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Books           uint64
	TradeTicks      uint64
	OrdersSent      uint64
	LotsFilled      uint64
	OrdersCancelled uint64
	OrdersRejected  uint64
	RateLimited     uint64
	JournalDrops    uint64
	JournalClosed   uint64
	BookHandling    LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncBook counts an order book snapshot.
func (m *Metrics) IncBook() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.books, 1)
}

// IncTradeTick counts a trade tick snapshot.
func (m *Metrics) IncTradeTick() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.tradeTicks, 1)
}

// IncOrderSent counts an accepted outbound order.
func (m *Metrics) IncOrderSent() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersSent, 1)
}

// AddLotsFilled counts filled lots.
func (m *Metrics) AddLotsFilled(lots int64) {
	if m == nil || lots <= 0 {
		return
	}
	atomic.AddUint64(&m.lotsFilled, uint64(lots))
}

// IncOrderCancelled counts an outbound cancel.
func (m *Metrics) IncOrderCancelled() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersCancelled, 1)
}

// IncOrderRejected counts a locally rejected order.
func (m *Metrics) IncOrderRejected() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ordersRejected, 1)
}

// IncRateLimited counts an outbound action dropped by the rate gate.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncJournalDrop records a journal record dropped on a full queue.
func (m *Metrics) IncJournalDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.journalDrops, 1)
}

// IncJournalClosed records a publish attempt on a closed journal queue.
func (m *Metrics) IncJournalClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.journalClosed, 1)
}

// ObserveBookHandling measures the time spent handling one snapshot.
func (m *Metrics) ObserveBookHandling(d time.Duration) {
	if m == nil {
		return
	}
	m.bookHandling.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Books:           atomic.LoadUint64(&m.books),
		TradeTicks:      atomic.LoadUint64(&m.tradeTicks),
		OrdersSent:      atomic.LoadUint64(&m.ordersSent),
		LotsFilled:      atomic.LoadUint64(&m.lotsFilled),
		OrdersCancelled: atomic.LoadUint64(&m.ordersCancelled),
		OrdersRejected:  atomic.LoadUint64(&m.ordersRejected),
		RateLimited:     atomic.LoadUint64(&m.rateLimited),
		JournalDrops:    atomic.LoadUint64(&m.journalDrops),
		JournalClosed:   atomic.LoadUint64(&m.journalClosed),
		BookHandling:    m.bookHandling.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
