package main

import (
	"flag"
	"fmt"
	"log"

	"main/internal/journal"
	"main/internal/ledger"
	"main/internal/schema"
)

// Rebuilds the session accounting from an audit journal and prints the
// resulting positions and profit. Useful for verifying a recorded session
// without rerunning it.
func main() {
	dir := flag.String("dir", "testdata/journal", "journal directory")
	noChecksum := flag.Bool("no-checksum", false, "disable checksum validation")
	maxPayload := flag.Int("max-payload", 0, "max payload size in bytes (0=unlimited)")
	flag.Parse()

	books := map[schema.Instrument]*ledger.Book{
		schema.InstrumentPrimary: ledger.NewBook(schema.InstrumentPrimary),
		schema.InstrumentHedge:   ledger.NewBook(schema.InstrumentHedge),
	}
	var lastMid schema.Price

	opts := journal.ReaderOptions{DisableChecksum: *noChecksum, MaxPayloadSize: *maxPayload}
	err := journal.Walk(*dir, opts, func(header schema.RecordHeader, payload []byte) error {
		switch header.Type {
		case schema.RecordOrderSent:
			rec, err := journal.DecodeOrder(payload)
			if err != nil {
				return err
			}
			if book, ok := books[rec.Instrument]; ok {
				book.Insert(ledger.Order{
					ID:         rec.OrderID,
					Instrument: rec.Instrument,
					Side:       rec.Side,
					Volume:     rec.Volume,
					Price:      rec.Price,
					Time:       header.Time,
				})
			}
		case schema.RecordOrderFilled:
			rec, err := journal.DecodeOrder(payload)
			if err != nil {
				return err
			}
			if book, ok := books[rec.Instrument]; ok {
				book.Fill(rec.OrderID, rec.Price, rec.Volume, header.Time)
			}
		case schema.RecordOrderCancelled:
			// Cancel records carry only the order id; mark whichever book
			// knows it.
			rec, err := journal.DecodeOrder(payload)
			if err != nil {
				return err
			}
			for _, book := range books {
				if book.MarkCancelled(rec.OrderID) {
					break
				}
			}
		case schema.RecordPrice:
			rec, err := journal.DecodePrice(payload)
			if err != nil {
				return err
			}
			if rec.Instrument == schema.InstrumentHedge {
				lastMid = rec.Mid
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("journal walk failed: %v", err)
	}

	var exposure schema.Volume
	var notional schema.Notional
	for instrument, book := range books {
		stats := book.Stats()
		fmt.Printf("instrument=%d exposure=%d notional=%d lots=%d sent=%d cancelled=%d\n",
			instrument, stats.Exposure, stats.Notional, stats.LotsFilled,
			stats.OrdersSent, stats.OrdersCancelled)
		exposure += stats.Exposure
		notional += stats.Notional
	}
	fmt.Printf("realized=%d marked=%d (last_mid=%d)\n",
		notional, notional+schema.Notional(lastMid)*schema.Notional(exposure), lastMid)
}
