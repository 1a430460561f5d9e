package exchange

import (
	"errors"

	"main/internal/schema"
)

var ErrSessionDisconnected = errors.New("exchange session disconnected")

type restingOrder struct {
	id     uint64
	side   schema.Side
	price  schema.Price
	volume schema.Volume
}

// Sim is an in-memory exchange session. Good-for-day orders rest until a
// snapshot crosses their price; hedge orders fill immediately and in full.
// Notices accumulate until drained by the driver.
type Sim struct {
	connected bool
	resting   []restingOrder
	notices   []Notice
}

// NewSim creates a connected simulation session.
func NewSim() *Sim {
	return &Sim{connected: true}
}

// PlaceOrder rests a good-for-day order. Fill-and-kill orders trade at their
// own price immediately, like hedge orders.
func (s *Sim) PlaceOrder(id uint64, side schema.Side, price schema.Price, volume schema.Volume, tif schema.TimeInForce) error {
	if !s.connected {
		return ErrSessionDisconnected
	}
	if tif == schema.TimeInForceFillAndKill {
		s.fill(id, false, price, volume)
		return nil
	}
	s.resting = append(s.resting, restingOrder{id: id, side: side, price: price, volume: volume})
	return nil
}

// PlaceHedgeOrder fills immediately at the requested price.
func (s *Sim) PlaceHedgeOrder(id uint64, side schema.Side, price schema.Price, volume schema.Volume) error {
	if !s.connected {
		return ErrSessionDisconnected
	}
	s.fill(id, true, price, volume)
	return nil
}

// CancelOrder removes a resting order and reports a terminal status. Unknown
// ids are ignored.
func (s *Sim) CancelOrder(id uint64) error {
	if !s.connected {
		return ErrSessionDisconnected
	}
	for i, o := range s.resting {
		if o.id == id {
			s.resting = append(s.resting[:i], s.resting[i+1:]...)
			s.notices = append(s.notices, Notice{Type: NoticeStatus, OrderID: id, Remaining: 0})
			return nil
		}
	}
	return nil
}

// OnSnapshot crosses resting orders against the snapshot's best levels. A
// resting bid trades when the best ask falls to or below its price, at the
// bid's own price.
func (s *Sim) OnSnapshot(snap schema.Snapshot) {
	kept := s.resting[:0]
	for _, o := range s.resting {
		crossed := false
		switch o.side {
		case schema.SideBuy:
			crossed = snap.AskPrices[0] != 0 && snap.AskPrices[0] <= o.price
		case schema.SideSell:
			crossed = snap.BidPrices[0] != 0 && snap.BidPrices[0] >= o.price
		}
		if crossed {
			s.fill(o.id, false, o.price, o.volume)
		} else {
			kept = append(kept, o)
		}
	}
	s.resting = kept
}

// Drain returns the accumulated notices and clears the queue.
func (s *Sim) Drain() []Notice {
	out := s.notices
	s.notices = nil
	return out
}

// Resting returns the number of resting orders.
func (s *Sim) Resting() int {
	return len(s.resting)
}

// Disconnect makes every subsequent outbound call fail.
func (s *Sim) Disconnect() {
	s.connected = false
}

func (s *Sim) fill(id uint64, hedge bool, price schema.Price, volume schema.Volume) {
	s.notices = append(s.notices,
		Notice{Type: NoticeFill, OrderID: id, Hedge: hedge, Price: price, Volume: volume},
		Notice{Type: NoticeStatus, OrderID: id, Hedge: hedge, Volume: volume, Remaining: 0},
	)
}
