package obs

import "sync/atomic"

// SeqGenerator creates monotonically increasing journal record sequence
// numbers.
type SeqGenerator struct {
	next uint64
}

// NewSeqGenerator returns a generator starting after the given seed.
func NewSeqGenerator(seed uint64) *SeqGenerator {
	return &SeqGenerator{next: seed}
}

// Next returns the next sequence number.
func (g *SeqGenerator) Next() uint64 {
	if g == nil {
		return 0
	}
	return atomic.AddUint64(&g.next, 1)
}
