package schema

// Price is a scaled integer price. The scale is defined by configuration.
type Price int64

// Volume is a signed lot count.
type Volume int64

// Notional is a scaled integer cash amount (price units times lots).
type Notional int64

// Depth is the number of levels per side in an exchange snapshot.
const Depth = 5

// Side describes order direction.
type Side uint16

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Instrument identifies one of the two traded instruments.
type Instrument uint16

const (
	InstrumentUnknown Instrument = iota
	InstrumentPrimary
	InstrumentHedge
)

func (i Instrument) String() string {
	switch i {
	case InstrumentPrimary:
		return "PRIMARY"
	case InstrumentHedge:
		return "HEDGE"
	default:
		return "UNKNOWN"
	}
}

// TimeInForce describes order time-in-force.
type TimeInForce uint16

const (
	TimeInForceUnknown TimeInForce = iota
	TimeInForceGoodForDay
	TimeInForceFillAndKill
)

// Snapshot is a fixed-depth view of one instrument's order book,
// best level first. A zero price marks an absent level.
type Snapshot struct {
	Instrument Instrument
	Sequence   uint64
	AskPrices  [Depth]Price
	AskVolumes [Depth]Volume
	BidPrices  [Depth]Price
	BidVolumes [Depth]Volume
}

// Mid returns the midpoint of the best bid and ask.
func (s Snapshot) Mid() Price {
	return (s.BidPrices[0] + s.AskPrices[0]) / 2
}

// FillEvent is the immutable record of one discrete fill of a resting order.
type FillEvent struct {
	OrderID    uint64
	Instrument Instrument
	Side       Side
	Volume     Volume
	Price      Price
	Time       float64
}
