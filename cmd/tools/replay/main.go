package main

import (
	"flag"
	"fmt"
	"log"

	"main/internal/journal"
	"main/internal/schema"
)

func main() {
	dir := flag.String("dir", "testdata/journal", "journal directory")
	noChecksum := flag.Bool("no-checksum", false, "disable checksum validation")
	maxPayload := flag.Int("max-payload", 0, "max payload size in bytes (0=unlimited)")
	decode := flag.Bool("decode", false, "decode known payload types")
	pgMirror := flag.Bool("pg", false, "mirror records into Postgres")
	pgConn := flag.String("pg-conn", "", "Postgres connection string")
	flag.Parse()

	var sink *journal.PGSink
	if *pgMirror {
		var err error
		sink, err = journal.NewPGSink(journal.PGOption{ConnString: *pgConn})
		if err != nil {
			log.Fatalf("postgres sink init failed: %v", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				log.Printf("postgres sink close failed: %v", err)
			}
		}()
	}

	opts := journal.ReaderOptions{
		DisableChecksum: *noChecksum,
		MaxPayloadSize:  *maxPayload,
	}
	var index int
	err := journal.Walk(*dir, opts, func(header schema.RecordHeader, payload []byte) error {
		index++
		fmt.Printf("%06d seq=%d type=%s time=%.2f ts_recv=%d len=%d\n",
			index, header.Seq, recordTypeName(header.Type), header.Time, header.TsRecv, len(payload))
		if *decode {
			printDecoded(header.Type, payload)
		}
		if sink != nil {
			return sink.Append(header, payload)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
}

func recordTypeName(t schema.RecordType) string {
	switch t {
	case schema.RecordOrderSent:
		return "OrderSent"
	case schema.RecordOrderFilled:
		return "OrderFilled"
	case schema.RecordOrderCancelled:
		return "OrderCancelled"
	case schema.RecordPrice:
		return "Price"
	case schema.RecordBook:
		return "Book"
	case schema.RecordTradeTicks:
		return "TradeTicks"
	case schema.RecordSignal:
		return "Signal"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

func printDecoded(t schema.RecordType, payload []byte) {
	switch t {
	case schema.RecordOrderSent, schema.RecordOrderFilled, schema.RecordOrderCancelled:
		order, err := journal.DecodeOrder(payload)
		if err != nil {
			fmt.Printf("  decode order failed: %v\n", err)
			return
		}
		fmt.Printf("  order id=%d instrument=%d side=%d volume=%d price=%d\n",
			order.OrderID, order.Instrument, order.Side, order.Volume, order.Price)
	case schema.RecordPrice:
		price, err := journal.DecodePrice(payload)
		if err != nil {
			fmt.Printf("  decode price failed: %v\n", err)
			return
		}
		fmt.Printf("  price instrument=%d mid=%d\n", price.Instrument, price.Mid)
	case schema.RecordBook, schema.RecordTradeTicks:
		book, err := journal.DecodeBook(payload)
		if err != nil {
			fmt.Printf("  decode book failed: %v\n", err)
			return
		}
		fmt.Printf("  book instrument=%d seq=%d best_bid=%d/%d best_ask=%d/%d fair=%d spread=%d\n",
			book.Snapshot.Instrument, book.Snapshot.Sequence,
			book.Snapshot.BidPrices[0], book.Snapshot.BidVolumes[0],
			book.Snapshot.AskPrices[0], book.Snapshot.AskVolumes[0],
			book.FairValue, book.Spread)
	case schema.RecordSignal:
		sig, err := journal.DecodeSignal(payload)
		if err != nil {
			fmt.Printf("  decode signal failed: %v\n", err)
			return
		}
		fmt.Printf("  signal %s=%s\n", sig.Name, sig.Value)
	default:
		return
	}
}
