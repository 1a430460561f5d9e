// Package match computes realized profit by pairing buy and sell fills in
// strict arrival order. Matching runs across every named book, so profit is
// attributed to the session as a whole rather than to any one book.
package match

import "main/internal/schema"

// Matcher pairs unmatched buy fills against unmatched sell fills, oldest
// first, and accumulates realized profit from each matched lot pair. It also
// keeps the global fill log consulted by the momentum signal.
type Matcher struct {
	fills         []schema.FillEvent
	unmatchedBids []schema.FillEvent
	unmatchedAsks []schema.FillEvent
	realized      schema.Notional
}

// New creates an empty matcher.
func New() *Matcher {
	return &Matcher{}
}

// Push appends a fill to the global log, enqueues it by side, and settles as
// many lot pairs as the two queues allow. Cost is proportional to the number
// of matches this fill triggers.
func (m *Matcher) Push(fill schema.FillEvent) {
	m.fills = append(m.fills, fill)
	switch fill.Side {
	case schema.SideBuy:
		m.unmatchedBids = append(m.unmatchedBids, fill)
	case schema.SideSell:
		m.unmatchedAsks = append(m.unmatchedAsks, fill)
	default:
		return
	}
	m.settle()
}

// settle drains the front of both queues. A partially matched fill keeps its
// place at the front so age priority is preserved.
func (m *Matcher) settle() {
	for len(m.unmatchedBids) > 0 && len(m.unmatchedAsks) > 0 {
		bid := &m.unmatchedBids[0]
		ask := &m.unmatchedAsks[0]

		matched := bid.Volume
		if ask.Volume < matched {
			matched = ask.Volume
		}
		m.realized += schema.Notional(matched) * schema.Notional(ask.Price-bid.Price)

		bid.Volume -= matched
		ask.Volume -= matched
		if bid.Volume == 0 {
			m.unmatchedBids = m.unmatchedBids[1:]
		}
		if ask.Volume == 0 {
			m.unmatchedAsks = m.unmatchedAsks[1:]
		}
	}
}

// RealizedProfit returns the accumulated profit over all matched lot pairs.
func (m *Matcher) RealizedProfit() schema.Notional {
	return m.realized
}

// Fills returns the global fill log, oldest first. Callers must not mutate it.
func (m *Matcher) Fills() []schema.FillEvent {
	return m.fills
}

// UnmatchedBids returns the remaining unmatched buy volume.
func (m *Matcher) UnmatchedBids() schema.Volume {
	return queuedVolume(m.unmatchedBids)
}

// UnmatchedAsks returns the remaining unmatched sell volume.
func (m *Matcher) UnmatchedAsks() schema.Volume {
	return queuedVolume(m.unmatchedAsks)
}

func queuedVolume(q []schema.FillEvent) schema.Volume {
	var total schema.Volume
	for _, f := range q {
		total += f.Volume
	}
	return total
}
