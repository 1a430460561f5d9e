package trader

import "main/internal/schema"

// Config carries every tuned constant of the quoting engine. The skew and
// stale-order values are empirically tuned; the bid/ask asymmetry in the skew
// is intentional.
type Config struct {
	PositionLimit schema.Volume
	TickSize      schema.Price
	MinPrice      schema.Price
	MaxPrice      schema.Price

	ClockStep    float64
	RateCapacity int
	RateWindow   float64

	MinSpread      schema.Price
	MaxSpread      schema.Price
	PriorityVolume schema.Volume
	SkewChase      schema.Price
	SkewPassive    schema.Price

	AllowedSlippage schema.Price
	MinHalfSpread   schema.Price

	LotSize        schema.Volume
	MaxOutstanding schema.Volume

	HedgeSpread schema.Price
	HedgeWarmup float64

	SignalLookback  float64
	SignalMinTrades int

	OutlierThreshold schema.Price
}

// DefaultConfig returns the session defaults.
func DefaultConfig() Config {
	return Config{
		PositionLimit: 100,
		TickSize:      100,
		MinPrice:      1,
		MaxPrice:      1<<31 - 1,

		ClockStep:    0.25,
		RateCapacity: 200,
		RateWindow:   1.0,

		MinSpread:      150,
		MaxSpread:      500,
		PriorityVolume: 100,
		SkewChase:      300,
		SkewPassive:    100,

		AllowedSlippage: 100,
		MinHalfSpread:   50,

		LotSize:        50,
		MaxOutstanding: 50,

		HedgeSpread: 100,
		HedgeWarmup: 1.0,

		SignalLookback:  1.0,
		SignalMinTrades: 2,

		OutlierThreshold: 1000,
	}
}
