// Package fairvalue derives a reference price from order book snapshots. The
// estimate weights each side's volume-weighted average price by the opposite
// side's total volume, so a heavy bid side pulls the estimate toward the ask.
package fairvalue

import (
	"math"

	"main/internal/schema"
	"main/internal/stream"
)

// Estimator computes an inverse-volume-weighted mid from snapshots and keeps
// the history of successful estimates.
type Estimator struct {
	tickSize schema.Price
	outlier  schema.Price
	history  *stream.Stream
}

// NewEstimator creates an estimator. Levels further than outlier from the
// best price on their side are ignored.
func NewEstimator(tickSize, outlier schema.Price) *Estimator {
	return &Estimator{
		tickSize: tickSize,
		outlier:  outlier,
		history:  stream.New(),
	}
}

// History returns the series of successful estimates, oldest first.
func (e *Estimator) History() *stream.Stream {
	return e.history
}

// Estimate returns the tick-rounded fair value for the snapshot. It fails
// when either side has no volume left after outlier filtering; failed
// estimates leave the history untouched.
func (e *Estimator) Estimate(snap schema.Snapshot) (schema.Price, bool) {
	askVWAP, askVolume := sideVWAP(snap.AskPrices, snap.AskVolumes, e.outlier)
	bidVWAP, bidVolume := sideVWAP(snap.BidPrices, snap.BidVolumes, e.outlier)
	if askVolume == 0 || bidVolume == 0 {
		return 0, false
	}

	// Weight each side by the opposite side's volume: excess ask volume
	// pushes the estimate down toward the bids.
	raw := (bidVWAP*float64(askVolume) + askVWAP*float64(bidVolume)) /
		float64(askVolume+bidVolume)
	mid := roundToTick(raw, e.tickSize)
	e.history.Push(float64(mid))
	return mid, true
}

func sideVWAP(prices [schema.Depth]schema.Price, volumes [schema.Depth]schema.Volume, outlier schema.Price) (float64, schema.Volume) {
	best := prices[0]
	var weighted float64
	var total schema.Volume
	for i := 0; i < schema.Depth; i++ {
		if prices[i] == 0 || volumes[i] == 0 {
			continue
		}
		distance := prices[i] - best
		if distance < 0 {
			distance = -distance
		}
		if distance > outlier {
			continue
		}
		weighted += float64(prices[i]) * float64(volumes[i])
		total += volumes[i]
	}
	if total == 0 {
		return 0, 0
	}
	return weighted / float64(total), total
}

// roundToTick rounds half up to the nearest multiple of tick.
func roundToTick(value float64, tick schema.Price) schema.Price {
	ticks := math.Floor(value/float64(tick) + 0.5)
	return schema.Price(ticks) * tick
}
