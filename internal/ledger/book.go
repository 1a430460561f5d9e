// Package ledger tracks resting orders, exposure and submitted volume. A
// Book is one named ledger; an Aggregator owns every book for an instrument
// and is the single source of truth consulted before any outbound action.
package ledger

import "main/internal/schema"

// Order is a resting order owned by a book. Volume is the remaining size;
// an order is removed the instant it reaches zero.
type Order struct {
	ID         uint64
	Instrument schema.Instrument
	Side       schema.Side
	Volume     schema.Volume
	Price      schema.Price
	Time       float64
}

// Stats are the per-book counters reported in the session dump.
type Stats struct {
	Exposure        schema.Volume
	Notional        schema.Notional
	LotsFilled      schema.Volume
	OrdersSent      int64
	OrdersCancelled int64
}

// Book holds the resting bids and asks of one named ledger together with its
// running position. Exposure is the signed sum of filled lots since creation;
// submitted volumes always equal the sum of remaining sizes of the resting
// orders on that side.
type Book struct {
	instrument schema.Instrument

	bids map[uint64]*Order
	asks map[uint64]*Order

	exposure      schema.Volume
	submittedBids schema.Volume
	submittedAsks schema.Volume
	notional      schema.Notional

	ordersSent      int64
	lotsFilled      schema.Volume
	ordersCancelled int64
}

// NewBook creates an empty book for the given instrument.
func NewBook(instrument schema.Instrument) *Book {
	return &Book{
		instrument: instrument,
		bids:       make(map[uint64]*Order),
		asks:       make(map[uint64]*Order),
	}
}

// Find returns a copy of the resting order with the given id.
func (b *Book) Find(id uint64) (Order, bool) {
	if o, ok := b.bids[id]; ok {
		return *o, true
	}
	if o, ok := b.asks[id]; ok {
		return *o, true
	}
	return Order{}, false
}

// Insert records a freshly sent order.
func (b *Book) Insert(o Order) {
	b.ordersSent++
	stored := o
	switch o.Side {
	case schema.SideBuy:
		b.submittedBids += o.Volume
		b.bids[o.ID] = &stored
	case schema.SideSell:
		b.submittedAsks += o.Volume
		b.asks[o.ID] = &stored
	}
}

// Fill reduces the order's remaining size and updates exposure and notional
// by the signed fill. The order is removed once its remaining size reaches
// zero. Returns a copy of the order carrying the filled volume and price.
func (b *Book) Fill(id uint64, price schema.Price, volume schema.Volume, now float64) (Order, bool) {
	o, ok := b.bids[id]
	if !ok {
		o, ok = b.asks[id]
	}
	if !ok {
		return Order{}, false
	}

	o.Volume -= volume
	switch o.Side {
	case schema.SideBuy:
		b.exposure += volume
		b.submittedBids -= volume
		b.notional -= schema.Notional(volume) * schema.Notional(price)
		if o.Volume <= 0 {
			delete(b.bids, id)
		}
	case schema.SideSell:
		b.exposure -= volume
		b.submittedAsks -= volume
		b.notional += schema.Notional(volume) * schema.Notional(price)
		if o.Volume <= 0 {
			delete(b.asks, id)
		}
	}
	b.lotsFilled += volume

	filled := *o
	filled.Volume = volume
	filled.Price = price
	filled.Time = now
	return filled, true
}

// Close removes a resting order without touching exposure and releases its
// remaining size from the submitted volume. Used for cancels, external
// closes and error notifications.
func (b *Book) Close(id uint64) (Order, bool) {
	if o, ok := b.bids[id]; ok {
		b.submittedBids -= o.Volume
		delete(b.bids, id)
		return *o, true
	}
	if o, ok := b.asks[id]; ok {
		b.submittedAsks -= o.Volume
		delete(b.asks, id)
		return *o, true
	}
	return Order{}, false
}

// MarkCancelled counts an outbound cancel for a known order. The order stays
// resting until the exchange confirms the close.
func (b *Book) MarkCancelled(id uint64) bool {
	if _, ok := b.Find(id); !ok {
		return false
	}
	b.ordersCancelled++
	return true
}

// Bids returns copies of the resting buy orders in no particular order.
func (b *Book) Bids() []Order {
	return collect(b.bids)
}

// Asks returns copies of the resting sell orders in no particular order.
func (b *Book) Asks() []Order {
	return collect(b.asks)
}

func collect(m map[uint64]*Order) []Order {
	out := make([]Order, 0, len(m))
	for _, o := range m {
		out = append(out, *o)
	}
	return out
}

// Stats returns the book's counters.
func (b *Book) Stats() Stats {
	return Stats{
		Exposure:        b.exposure,
		Notional:        b.notional,
		LotsFilled:      b.lotsFilled,
		OrdersSent:      b.ordersSent,
		OrdersCancelled: b.ordersCancelled,
	}
}
