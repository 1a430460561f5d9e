package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"main/internal/bus"
	"main/internal/journal"
	"main/internal/mdg"
	"main/internal/obs"
	"main/internal/schema"
)

// Generates a synthetic snapshot session and journals it, so replay and sink
// tooling can be exercised without running the trader.
func main() {
	dir := flag.String("dir", "testdata/journal", "journal directory")
	ticks := flag.Int("ticks", 10, "number of ticks to generate")
	interval := flag.Duration("interval", 0, "delay between ticks")
	seed := flag.Int64("seed", 0, "generator seed")
	startMid := flag.Int64("start-mid", 0, "starting mid price (scaled, 0=default)")
	tickSize := flag.Int64("tick-size", 0, "price tick size (scaled, 0=default)")
	print := flag.Bool("print", false, "print snapshots to stdout")
	flag.Parse()

	if *ticks <= 0 {
		log.Fatalf("ticks must be > 0")
	}

	gen := mdg.New(mdg.Config{
		Seed:     *seed,
		StartMid: schema.Price(*startMid),
		TickSize: schema.Price(*tickSize),
	})

	ctx := context.Background()
	writer, err := journal.NewWriter(journal.DefaultConfig(*dir))
	if err != nil {
		log.Fatalf("journal init failed: %v", err)
	}
	if err := writer.Start(ctx); err != nil {
		log.Fatalf("journal start failed: %v", err)
	}

	metrics := obs.NewMetrics()
	queue := bus.NewQueue(1024)
	pub := journal.NewPublisher(queue, metrics)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		journal.Pump(ctx, queue, writer, metrics)
	}()

	for i := 0; i < *ticks; i++ {
		hedge, primary := gen.Next()
		now := float64(i)
		pub.Book(now, schema.BookRecord{Snapshot: hedge})
		pub.Book(now, schema.BookRecord{Snapshot: primary})
		if *print {
			printSnapshot(hedge)
			printSnapshot(primary)
		}
		if *interval > 0 && i < *ticks-1 {
			time.Sleep(*interval)
		}
	}

	queue.Close()
	wg.Wait()
	if err := writer.Close(); err != nil {
		log.Fatalf("journal close failed: %v", err)
	}
	if err := writer.Err(); err != nil {
		log.Fatalf("journal append failed: %v", err)
	}

	snap := metrics.Snapshot()
	log.Printf("done: ticks=%d drops=%d closed=%d", *ticks, snap.JournalDrops, snap.JournalClosed)
}

func printSnapshot(s schema.Snapshot) {
	fmt.Printf("seq=%d instrument=%d bid=%d/%d ask=%d/%d\n",
		s.Sequence, s.Instrument, s.BidPrices[0], s.BidVolumes[0], s.AskPrices[0], s.AskVolumes[0])
}
