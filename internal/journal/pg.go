package journal

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"main/internal/schema"
)

const (
	defaultPostgresHost    = "localhost"
	defaultPostgresPort    = 5432
	defaultPostgresSSLMode = "disable"
)

// PGOption defines connection options for the Postgres sink.
type PGOption struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	Params     map[string]string
	ConnString string
	Config     *gorm.Config
}

// Entry is one journal record flattened for relational queries.
type Entry struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement"`
	Seq        uint64  `gorm:"index"`
	RecordType uint16  `gorm:"index"`
	Time       float64 // logical session time
	RecvNanos  int64
	OrderID    uint64
	Instrument string
	Side       string
	Volume     int64
	Price      int64
	FairValue  int64
	Detail     string
}

// TableName keeps the sink in one fixed table.
func (Entry) TableName() string {
	return "journal_entries"
}

// PGSink mirrors journal records into Postgres for ad-hoc analysis. It is as
// write-only as the file journal; the core never reads it.
type PGSink struct {
	db *gorm.DB
}

// NewPGSink connects and migrates the journal table.
func NewPGSink(opt PGOption) (*PGSink, error) {
	connString, err := opt.dsn()
	if err != nil {
		return nil, err
	}
	config := opt.Config
	if config == nil {
		config = &gorm.Config{}
	}
	db, err := gorm.Open(postgres.Open(connString), config)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &PGSink{db: db}, nil
}

// Append decodes one record and inserts it.
func (s *PGSink) Append(header schema.RecordHeader, payload []byte) error {
	entry, err := entryFromRecord(header, payload)
	if err != nil {
		return err
	}
	return s.db.Create(&entry).Error
}

// Close releases the connection pool.
func (s *PGSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func entryFromRecord(header schema.RecordHeader, payload []byte) (Entry, error) {
	entry := Entry{
		Seq:        header.Seq,
		RecordType: uint16(header.Type),
		Time:       header.Time,
		RecvNanos:  header.TsRecv,
	}
	switch header.Type {
	case schema.RecordOrderSent, schema.RecordOrderFilled, schema.RecordOrderCancelled:
		rec, err := DecodeOrder(payload)
		if err != nil {
			return Entry{}, err
		}
		entry.OrderID = rec.OrderID
		entry.Instrument = rec.Instrument.String()
		entry.Side = rec.Side.String()
		entry.Volume = int64(rec.Volume)
		entry.Price = int64(rec.Price)
	case schema.RecordPrice:
		rec, err := DecodePrice(payload)
		if err != nil {
			return Entry{}, err
		}
		entry.Instrument = rec.Instrument.String()
		entry.FairValue = int64(rec.Mid)
	case schema.RecordBook, schema.RecordTradeTicks:
		rec, err := DecodeBook(payload)
		if err != nil {
			return Entry{}, err
		}
		entry.Instrument = rec.Snapshot.Instrument.String()
		entry.FairValue = int64(rec.FairValue)
		entry.Detail = fmt.Sprintf("seq=%d bid=%d ask=%d",
			rec.Snapshot.Sequence, rec.Snapshot.BidPrices[0], rec.Snapshot.AskPrices[0])
	case schema.RecordSignal:
		rec, err := DecodeSignal(payload)
		if err != nil {
			return Entry{}, err
		}
		entry.Detail = fmt.Sprintf("%s=%s", rec.Name, rec.Value)
	default:
		return Entry{}, ErrInvalidPayload
	}
	return entry, nil
}

func (opt PGOption) dsn() (string, error) {
	if opt.ConnString != "" {
		return opt.ConnString, nil
	}

	host := opt.Host
	if host == "" {
		host = defaultPostgresHost
	}
	port := opt.Port
	if port == 0 {
		port = defaultPostgresPort
	}
	sslMode := opt.SSLMode
	if sslMode == "" {
		sslMode = defaultPostgresSSLMode
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
	}
	if opt.User != "" {
		if opt.Password != "" {
			u.User = url.UserPassword(opt.User, opt.Password)
		} else {
			u.User = url.User(opt.User)
		}
	}
	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	for key, value := range opt.Params {
		if key == "" {
			continue
		}
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
