// Package ops loads the session configuration. Currency-denominated fields
// are decimal strings in the file and are converted to scaled integer prices
// before they reach the engine.
package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/journal"
	"main/internal/mdg"
	"main/internal/schema"
	"main/internal/trader"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Engine  EngineConfig  `json:"engine"`
	Journal JournalConfig `json:"journal"`
	Sim     SimConfig     `json:"sim"`
}

// EngineConfig holds the quoting engine tunables. Price fields are decimal
// strings scaled by priceScale; empty fields keep their defaults.
type EngineConfig struct {
	PriceScale int32 `json:"priceScale"`

	PositionLimit int64  `json:"positionLimit"`
	TickSize      string `json:"tickSize"`
	MinPrice      string `json:"minPrice"`
	MaxPrice      string `json:"maxPrice"`

	ClockStep    float64 `json:"clockStep"`
	RateCapacity int     `json:"rateCapacity"`
	RateWindow   float64 `json:"rateWindow"`

	MinSpread      string `json:"minSpread"`
	MaxSpread      string `json:"maxSpread"`
	PriorityVolume int64  `json:"priorityVolume"`
	SkewChase      string `json:"skewChase"`
	SkewPassive    string `json:"skewPassive"`

	AllowedSlippage string `json:"allowedSlippage"`
	MinHalfSpread   string `json:"minHalfSpread"`

	LotSize        int64 `json:"lotSize"`
	MaxOutstanding int64 `json:"maxOutstanding"`

	HedgeSpread string  `json:"hedgeSpread"`
	HedgeWarmup float64 `json:"hedgeWarmup"`

	SignalLookback  float64 `json:"signalLookback"`
	SignalMinTrades int     `json:"signalMinTrades"`

	OutlierThreshold string `json:"outlierThreshold"`
}

// JournalConfig selects the audit sinks.
type JournalConfig struct {
	Enabled       bool   `json:"enabled"`
	Dir           string `json:"dir"`
	QueueSize     int    `json:"queueSize"`
	FlushMillis   int    `json:"flushMillis"`
	SyncMillis    int    `json:"syncMillis"`
	Postgres      bool   `json:"postgres"`
	PostgresHost  string `json:"postgresHost"`
	PostgresPort  int    `json:"postgresPort"`
	PostgresUser  string `json:"postgresUser"`
	PostgresPass  string `json:"postgresPass"`
	PostgresDB    string `json:"postgresDb"`
	PostgresExtra string `json:"postgresConnString"`
}

// SimConfig drives the synthetic session.
type SimConfig struct {
	Seed           int64  `json:"seed"`
	Ticks          int    `json:"ticks"`
	StartMid       string `json:"startMid"`
	TradeTickEvery int    `json:"tradeTickEvery"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Engine     trader.Config
	PriceScale int32
	Journal    JournalConfig
	Sim        SimConfig
}

// Load reads a JSON config file and resolves it over the defaults. An empty
// path yields pure defaults.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrap(err, "read config")
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrap(err, "parse config")
		}
	}

	engine, err := resolveEngine(cfg.Engine)
	if err != nil {
		return Loaded{}, err
	}
	if err := validateEngine(engine); err != nil {
		return Loaded{}, err
	}

	sim := cfg.Sim
	if sim.Ticks == 0 {
		sim.Ticks = 1000
	}
	if sim.TradeTickEvery == 0 {
		sim.TradeTickEvery = 4
	}

	return Loaded{Engine: engine, PriceScale: cfg.Engine.PriceScale, Journal: cfg.Journal, Sim: sim}, nil
}

// WriterConfig converts the file section into a journal writer config.
func (c JournalConfig) WriterConfig() journal.Config {
	out := journal.DefaultConfig(c.Dir)
	if c.QueueSize > 0 {
		out.QueueSize = c.QueueSize
	}
	if c.FlushMillis > 0 {
		out.FlushInterval = time.Duration(c.FlushMillis) * time.Millisecond
	}
	if c.SyncMillis > 0 {
		out.SyncInterval = time.Duration(c.SyncMillis) * time.Millisecond
	}
	return out
}

// PGOption converts the file section into Postgres sink options.
func (c JournalConfig) PGOption() journal.PGOption {
	return journal.PGOption{
		Host:       c.PostgresHost,
		Port:       c.PostgresPort,
		User:       c.PostgresUser,
		Password:   c.PostgresPass,
		Database:   c.PostgresDB,
		ConnString: c.PostgresExtra,
	}
}

// GeneratorConfig converts the sim section into a snapshot generator config.
func (c SimConfig) GeneratorConfig(engine trader.Config, priceScale int32) (mdg.Config, error) {
	out := mdg.Config{
		Seed:     c.Seed,
		TickSize: engine.TickSize,
	}
	if c.StartMid != "" {
		mid, err := parsePrice(c.StartMid, priceScale)
		if err != nil {
			return mdg.Config{}, errors.Wrap(err, "parse sim startMid")
		}
		out.StartMid = mid
	}
	return out, nil
}

func resolveEngine(cfg EngineConfig) (trader.Config, error) {
	out := trader.DefaultConfig()

	if cfg.PositionLimit != 0 {
		out.PositionLimit = schema.Volume(cfg.PositionLimit)
	}
	if cfg.ClockStep != 0 {
		out.ClockStep = cfg.ClockStep
	}
	if cfg.RateCapacity != 0 {
		out.RateCapacity = cfg.RateCapacity
	}
	if cfg.RateWindow != 0 {
		out.RateWindow = cfg.RateWindow
	}
	if cfg.PriorityVolume != 0 {
		out.PriorityVolume = schema.Volume(cfg.PriorityVolume)
	}
	if cfg.LotSize != 0 {
		out.LotSize = schema.Volume(cfg.LotSize)
	}
	if cfg.MaxOutstanding != 0 {
		out.MaxOutstanding = schema.Volume(cfg.MaxOutstanding)
	}
	if cfg.HedgeWarmup != 0 {
		out.HedgeWarmup = cfg.HedgeWarmup
	}
	if cfg.SignalLookback != 0 {
		out.SignalLookback = cfg.SignalLookback
	}
	if cfg.SignalMinTrades != 0 {
		out.SignalMinTrades = cfg.SignalMinTrades
	}

	prices := []struct {
		raw string
		dst *schema.Price
	}{
		{cfg.TickSize, &out.TickSize},
		{cfg.MinPrice, &out.MinPrice},
		{cfg.MaxPrice, &out.MaxPrice},
		{cfg.MinSpread, &out.MinSpread},
		{cfg.MaxSpread, &out.MaxSpread},
		{cfg.SkewChase, &out.SkewChase},
		{cfg.SkewPassive, &out.SkewPassive},
		{cfg.AllowedSlippage, &out.AllowedSlippage},
		{cfg.MinHalfSpread, &out.MinHalfSpread},
		{cfg.HedgeSpread, &out.HedgeSpread},
		{cfg.OutlierThreshold, &out.OutlierThreshold},
	}
	for _, p := range prices {
		if p.raw == "" {
			continue
		}
		v, err := parsePrice(p.raw, cfg.PriceScale)
		if err != nil {
			return trader.Config{}, err
		}
		*p.dst = v
	}
	return out, nil
}

// parsePrice converts a decimal currency string into a scaled integer price.
// The value must be exact at the given scale; silent truncation would move
// quotes off the intended price.
func parsePrice(raw string, scale int32) (schema.Price, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, errors.Wrap(err, "parse price "+raw)
	}
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("price %s has more than %d decimal places", raw, scale)
	}
	return schema.Price(shifted.IntPart()), nil
}

func validateEngine(cfg trader.Config) error {
	if cfg.PositionLimit <= 0 {
		return fmt.Errorf("invalid engine config: positionLimit must be > 0")
	}
	if cfg.TickSize <= 0 {
		return fmt.Errorf("invalid engine config: tickSize must be > 0")
	}
	if cfg.MinPrice <= 0 || cfg.MaxPrice <= cfg.MinPrice {
		return fmt.Errorf("invalid engine config: price range is empty")
	}
	if cfg.MinSpread <= 0 || cfg.MaxSpread <= cfg.MinSpread {
		return fmt.Errorf("invalid engine config: need 0 < minSpread < maxSpread")
	}
	if cfg.RateCapacity <= 0 || cfg.RateWindow <= 0 {
		return fmt.Errorf("invalid engine config: rate limiter must have capacity and window")
	}
	if cfg.ClockStep <= 0 {
		return fmt.Errorf("invalid engine config: clockStep must be > 0")
	}
	if cfg.LotSize <= 0 || cfg.MaxOutstanding <= 0 {
		return fmt.Errorf("invalid engine config: lotSize and maxOutstanding must be > 0")
	}
	if cfg.SignalMinTrades <= 0 {
		return fmt.Errorf("invalid engine config: signalMinTrades must be > 0")
	}
	return nil
}
