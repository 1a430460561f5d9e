package main

import (
	"context"
	"flag"
	"os"
	"sync"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/exchange"
	"main/internal/journal"
	"main/internal/mdg"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/schema"
	"main/internal/trader"
)

func main() {
	if err := run(); err != nil {
		logs.Errorf("trader: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to JSON config (empty=defaults)")
	pyroscopeAddr := flag.String("pyroscope", "", "pyroscope server address (empty=disabled)")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		return err
	}

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trader",
			ServerAddress:   *pyroscopeAddr,
			Tags: map[string]string{
				"env": "sim",
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := obs.NewMetrics()
	sim := exchange.NewSim()

	var (
		audit  trader.Journal
		queue  *bus.Queue
		writer *journal.Writer
		wg     sync.WaitGroup
	)
	if loaded.Journal.Enabled {
		cfg := loaded.Journal.WriterConfig()
		writer, err = journal.NewWriter(cfg)
		if err != nil {
			return err
		}
		if err := writer.Start(ctx); err != nil {
			return err
		}
		queue = bus.NewQueue(cfg.QueueSize)
		audit = journal.NewPublisher(queue, metrics)
		wg.Add(1)
		go func() {
			defer wg.Done()
			journal.Pump(ctx, queue, writer, metrics)
		}()
	}

	genCfg, err := loaded.Sim.GeneratorConfig(loaded.Engine, loaded.PriceScale)
	if err != nil {
		return err
	}
	gen := mdg.New(genCfg)
	trd := trader.New(loaded.Engine, sim, audit, metrics)

	logs.Infof("session start: ticks=%d seed=%d journal=%v", loaded.Sim.Ticks, loaded.Sim.Seed, loaded.Journal.Enabled)

	runErr := drive(trd, sim, gen, metrics, loaded.Sim)

	trd.OnDisconnect()

	if queue != nil {
		queue.Close()
	}
	wg.Wait()
	if writer != nil {
		if err := writer.Close(); err != nil {
			return err
		}
		if err := writer.Err(); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	snap := metrics.Snapshot()
	logs.Infof("metrics: books=%d trade_ticks=%d sent=%d lots=%d cancelled=%d rejected=%d rate_limited=%d journal_drops=%d book_handling=%+v",
		snap.Books, snap.TradeTicks, snap.OrdersSent, snap.LotsFilled,
		snap.OrdersCancelled, snap.OrdersRejected, snap.RateLimited,
		snap.JournalDrops, snap.BookHandling)
	return nil
}

// drive feeds generated snapshots through the simulated session until the
// tick budget runs out or a shutdown signal arrives.
func drive(trd *trader.Trader, sim *exchange.Sim, gen *mdg.Generator, metrics *obs.Metrics, cfg ops.SimConfig) error {
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown requested")
			return nil
		default:
		}

		hedge, primary := gen.Next()
		sim.OnSnapshot(hedge)
		sim.OnSnapshot(primary)

		start := time.Now()
		if err := trd.OnOrderBook(hedge); err != nil {
			return err
		}
		if err := trd.OnOrderBook(primary); err != nil {
			return err
		}
		metrics.ObserveBookHandling(time.Since(start))

		dispatch(trd, sim)

		if cfg.TradeTickEvery > 0 && (i+1)%cfg.TradeTickEvery == 0 {
			trd.OnTradeTicks(gen.TradeTicks(schema.InstrumentPrimary))
		}
	}
	return nil
}

// dispatch drains session notices into the trader. Fills can place hedge
// orders that produce further notices, so it loops until the session is
// quiet.
func dispatch(trd *trader.Trader, sim *exchange.Sim) {
	for {
		notices := sim.Drain()
		if len(notices) == 0 {
			return
		}
		for _, n := range notices {
			switch n.Type {
			case exchange.NoticeFill:
				if n.Hedge {
					trd.OnHedgeFilled(n.OrderID, n.Price, n.Volume)
				} else {
					trd.OnOrderFilled(n.OrderID, n.Price, n.Volume)
				}
			case exchange.NoticeStatus:
				trd.OnOrderStatus(n.OrderID, n.Volume, n.Remaining, n.Fees)
			case exchange.NoticeError:
				trd.OnError(n.OrderID, n.Message)
			}
		}
	}
}
