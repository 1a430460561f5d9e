package fairvalue

import "main/internal/schema"

// MidScore grades an estimator by how close its previous estimate sits to
// subsequently traded prices. Lower is better.
type MidScore struct {
	estimate    schema.Price
	hasEstimate bool
	distance    float64
	volume      schema.Volume
}

// NewMidScore creates an empty score.
func NewMidScore() *MidScore {
	return &MidScore{}
}

// SetEstimate records the estimate that the next batch of trades is graded
// against.
func (m *MidScore) SetEstimate(p schema.Price) {
	m.estimate = p
	m.hasEstimate = true
}

// ObserveTicks accumulates the volume-weighted absolute distance between
// traded prices and the current estimate. Ticks arriving before the first
// estimate are ignored.
func (m *MidScore) ObserveTicks(prices [schema.Depth]schema.Price, volumes [schema.Depth]schema.Volume) {
	if !m.hasEstimate {
		return
	}
	for i := 0; i < schema.Depth; i++ {
		if prices[i] == 0 || volumes[i] == 0 {
			continue
		}
		d := float64(prices[i] - m.estimate)
		if d < 0 {
			d = -d
		}
		m.distance += d * float64(volumes[i])
		m.volume += volumes[i]
	}
}

// Score returns the mean absolute distance per traded lot.
func (m *MidScore) Score() (float64, bool) {
	if m.volume == 0 {
		return 0, false
	}
	return m.distance / float64(m.volume), true
}
