// Package mdg creates synthetic fixed-depth snapshots for simulated
// sessions. The hedge instrument's mid follows a random walk; the primary
// instrument tracks it with a small noisy basis. Each tick yields the hedge
// snapshot first, matching the exchange's delivery order.
package mdg

import (
	"math/rand"

	"main/internal/schema"
)

// Config controls the synthetic walk.
type Config struct {
	Seed       int64
	StartMid   schema.Price
	TickSize   schema.Price
	BaseVolume schema.Volume
	// WalkTicks bounds the per-tick mid move, in price ticks.
	WalkTicks int
	// BasisTicks bounds the primary instrument's offset from the hedge mid.
	BasisTicks int
}

func (c Config) withDefaults() Config {
	if c.StartMid == 0 {
		c.StartMid = 10000
	}
	if c.TickSize == 0 {
		c.TickSize = 100
	}
	if c.BaseVolume == 0 {
		c.BaseVolume = 20
	}
	if c.WalkTicks == 0 {
		c.WalkTicks = 2
	}
	if c.BasisTicks == 0 {
		c.BasisTicks = 1
	}
	return c
}

// Generator produces snapshot pairs in sequence order.
type Generator struct {
	cfg Config
	rng *rand.Rand
	mid schema.Price
	seq uint64
}

// New creates a generator. The same seed reproduces the same session.
func New(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		mid: cfg.StartMid,
	}
}

// Next advances the walk and returns the hedge and primary snapshots for the
// new sequence number, in delivery order.
func (g *Generator) Next() (schema.Snapshot, schema.Snapshot) {
	g.seq++
	step := schema.Price(g.rng.Intn(2*g.cfg.WalkTicks+1)-g.cfg.WalkTicks) * g.cfg.TickSize
	g.mid += step
	if g.mid < g.cfg.TickSize*10 {
		g.mid = g.cfg.TickSize * 10
	}

	basis := schema.Price(g.rng.Intn(2*g.cfg.BasisTicks+1)-g.cfg.BasisTicks) * g.cfg.TickSize
	hedge := g.snapshot(schema.InstrumentHedge, g.mid)
	primary := g.snapshot(schema.InstrumentPrimary, g.mid+basis)
	return hedge, primary
}

// TradeTicks fabricates a trade tick snapshot around the current mid.
func (g *Generator) TradeTicks(instrument schema.Instrument) schema.Snapshot {
	return g.snapshot(instrument, g.mid)
}

// Sequence returns the last generated sequence number.
func (g *Generator) Sequence() uint64 {
	return g.seq
}

func (g *Generator) snapshot(instrument schema.Instrument, mid schema.Price) schema.Snapshot {
	snap := schema.Snapshot{
		Instrument: instrument,
		Sequence:   g.seq,
	}
	half := g.cfg.TickSize / 2
	for i := 0; i < schema.Depth; i++ {
		level := schema.Price(i) * g.cfg.TickSize
		snap.BidPrices[i] = mid - half - level
		snap.AskPrices[i] = mid + half + level
		snap.BidVolumes[i] = g.cfg.BaseVolume + schema.Volume(g.rng.Intn(int(g.cfg.BaseVolume)))
		snap.AskVolumes[i] = g.cfg.BaseVolume + schema.Volume(g.rng.Intn(int(g.cfg.BaseVolume)))
	}
	return snap
}
