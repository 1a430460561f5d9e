package ledger

import "main/internal/schema"

// Aggregator owns every named book of one instrument and answers the
// aggregate questions asked before each outbound action: total exposure,
// total submitted volume per side, total notional.
type Aggregator struct {
	instrument schema.Instrument
	books      map[string]*Book
	names      []string
}

// NewAggregator creates an aggregator with no books.
func NewAggregator(instrument schema.Instrument) *Aggregator {
	return &Aggregator{
		instrument: instrument,
		books:      make(map[string]*Book),
	}
}

// Book returns the named book, creating it on first use.
func (a *Aggregator) Book(name string) *Book {
	b, ok := a.books[name]
	if !ok {
		b = NewBook(a.instrument)
		a.books[name] = b
		a.names = append(a.names, name)
	}
	return b
}

// Find locates a resting order by id across all books, returning the owning
// book's name alongside the order.
func (a *Aggregator) Find(id uint64) (Order, string, bool) {
	for _, name := range a.names {
		if o, ok := a.books[name].Find(id); ok {
			return o, name, true
		}
	}
	return Order{}, "", false
}

// Fill applies a fill to whichever book owns the order.
func (a *Aggregator) Fill(id uint64, price schema.Price, volume schema.Volume, now float64) (Order, bool) {
	for _, name := range a.names {
		if o, ok := a.books[name].Fill(id, price, volume, now); ok {
			return o, true
		}
	}
	return Order{}, false
}

// Close removes a resting order from whichever book owns it.
func (a *Aggregator) Close(id uint64) (Order, bool) {
	for _, name := range a.names {
		if o, ok := a.books[name].Close(id); ok {
			return o, true
		}
	}
	return Order{}, false
}

// MarkCancelled counts an outbound cancel on the owning book.
func (a *Aggregator) MarkCancelled(id uint64) bool {
	for _, name := range a.names {
		if a.books[name].MarkCancelled(id) {
			return true
		}
	}
	return false
}

// Exposure returns the signed filled position summed over all books.
func (a *Aggregator) Exposure() schema.Volume {
	var total schema.Volume
	for _, b := range a.books {
		total += b.exposure
	}
	return total
}

// SubmittedBids returns the remaining resting buy volume over all books.
func (a *Aggregator) SubmittedBids() schema.Volume {
	var total schema.Volume
	for _, b := range a.books {
		total += b.submittedBids
	}
	return total
}

// SubmittedAsks returns the remaining resting sell volume over all books.
func (a *Aggregator) SubmittedAsks() schema.Volume {
	var total schema.Volume
	for _, b := range a.books {
		total += b.submittedAsks
	}
	return total
}

// Notional returns the signed cash flow from fills summed over all books.
func (a *Aggregator) Notional() schema.Notional {
	var total schema.Notional
	for _, b := range a.books {
		total += b.notional
	}
	return total
}

// RestingBids returns copies of every resting buy order across all books.
func (a *Aggregator) RestingBids() []Order {
	var out []Order
	for _, name := range a.names {
		out = append(out, a.books[name].Bids()...)
	}
	return out
}

// RestingAsks returns copies of every resting sell order across all books.
func (a *Aggregator) RestingAsks() []Order {
	var out []Order
	for _, name := range a.names {
		out = append(out, a.books[name].Asks()...)
	}
	return out
}

// Stats returns per-book counters keyed by book name.
func (a *Aggregator) Stats() map[string]Stats {
	out := make(map[string]Stats, len(a.books))
	for name, b := range a.books {
		out[name] = b.Stats()
	}
	return out
}
