// Package signal derives short-horizon directional signals from the trading
// session's own fill flow.
package signal

import (
	"main/internal/match"
	"main/internal/schema"
)

// Signal is a directional reading. None means no clear direction.
type Signal uint8

const (
	None Signal = iota
	UpTrend
	DownTrend
)

func (s Signal) String() string {
	switch s {
	case UpTrend:
		return "up"
	case DownTrend:
		return "down"
	default:
		return "none"
	}
}

// Config bounds the momentum window. Lookback is in clock seconds; MinTrades
// is the number of same-side fills needed before a direction is called.
type Config struct {
	Lookback  float64
	MinTrades int
}

// Momentum reads direction from recent fills: a run of buy fills means the
// market is lifting our bids on the way down, so the signal is a downtrend,
// and symmetrically for sells. Fills on both sides cancel out.
type Momentum struct {
	matcher *match.Matcher
	cfg     Config
}

// NewMomentum creates a momentum signal over the given fill log.
func NewMomentum(matcher *match.Matcher, cfg Config) *Momentum {
	return &Momentum{matcher: matcher, cfg: cfg}
}

// Evaluate scans fills newer than now minus the lookback and returns the
// current signal.
func (m *Momentum) Evaluate(now float64) Signal {
	var buys, sells int
	fills := m.matcher.Fills()
	for i := len(fills) - 1; i >= 0; i-- {
		if now-fills[i].Time > m.cfg.Lookback {
			break
		}
		switch fills[i].Side {
		case schema.SideBuy:
			buys++
		case schema.SideSell:
			sells++
		}
	}

	switch {
	case buys >= m.cfg.MinTrades && sells < m.cfg.MinTrades:
		return DownTrend
	case sells >= m.cfg.MinTrades && buys < m.cfg.MinTrades:
		return UpTrend
	default:
		return None
	}
}
