package mdg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func TestNextDeliversHedgeFirstWithSharedSequence(t *testing.T) {
	g := New(Config{Seed: 1})

	hedge, primary := g.Next()
	assert.Equal(t, schema.InstrumentHedge, hedge.Instrument)
	assert.Equal(t, schema.InstrumentPrimary, primary.Instrument)
	assert.Equal(t, uint64(1), hedge.Sequence)
	assert.Equal(t, hedge.Sequence, primary.Sequence)

	hedge2, _ := g.Next()
	assert.Equal(t, uint64(2), hedge2.Sequence)
}

func TestSnapshotsAreWellFormed(t *testing.T) {
	g := New(Config{Seed: 7})
	for i := 0; i < 100; i++ {
		hedge, primary := g.Next()
		for _, snap := range []schema.Snapshot{hedge, primary} {
			require.Greater(t, snap.AskPrices[0], snap.BidPrices[0])
			for level := 1; level < schema.Depth; level++ {
				require.Greater(t, snap.AskPrices[level], snap.AskPrices[level-1])
				require.Less(t, snap.BidPrices[level], snap.BidPrices[level-1])
				require.Positive(t, snap.BidVolumes[level])
				require.Positive(t, snap.AskVolumes[level])
			}
		}
	}
}

func TestSameSeedReproducesSession(t *testing.T) {
	a, b := New(Config{Seed: 42}), New(Config{Seed: 42})
	for i := 0; i < 10; i++ {
		ha, pa := a.Next()
		hb, pb := b.Next()
		assert.Equal(t, ha, hb)
		assert.Equal(t, pa, pb)
	}
}
