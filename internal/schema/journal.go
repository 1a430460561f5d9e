package schema

// JournalVersion is the current journal record schema version.
const JournalVersion uint16 = 1

// RecordType defines the category of a record appended to the audit journal.
type RecordType uint16

const (
	RecordUnknown RecordType = iota
	RecordOrderSent
	RecordOrderFilled
	RecordOrderCancelled
	RecordPrice
	RecordBook
	RecordTradeTicks
	RecordSignal
)

// RecordHeader is the common metadata attached to every journal record.
type RecordHeader struct {
	Type    RecordType
	Version uint16
	Seq     uint64
	Time    float64
	TsRecv  int64
}

// NewRecordHeader builds a header with the current journal version.
func NewRecordHeader(recordType RecordType, seq uint64, logical float64, tsRecv int64) RecordHeader {
	return RecordHeader{
		Type:    recordType,
		Version: JournalVersion,
		Seq:     seq,
		Time:    logical,
		TsRecv:  tsRecv,
	}
}

// OrderRecord is the payload for the order sent/filled/cancelled records.
type OrderRecord struct {
	OrderID    uint64
	Instrument Instrument
	Side       Side
	Volume     Volume
	Price      Price
}

// PriceRecord is the payload for RecordPrice.
type PriceRecord struct {
	Instrument Instrument
	Mid        Price
}

// BookRecord is the payload for RecordBook and RecordTradeTicks. FairValue
// and Spread are zero for trade ticks.
type BookRecord struct {
	Snapshot  Snapshot
	FairValue Price
	Spread    Price
}

// SignalRecord is the payload for RecordSignal.
type SignalRecord struct {
	Name  string
	Value string
}
