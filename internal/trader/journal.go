package trader

import "main/internal/schema"

// Journal is the write-only audit sink. The engine records every decision
// through it; nothing in the engine ever reads back.
type Journal interface {
	OrderSent(now float64, rec schema.OrderRecord)
	OrderFilled(now float64, rec schema.OrderRecord)
	OrderCancelled(now float64, rec schema.OrderRecord)
	Price(now float64, rec schema.PriceRecord)
	Book(now float64, rec schema.BookRecord)
	TradeTicks(now float64, rec schema.BookRecord)
	Signal(now float64, rec schema.SignalRecord)
}

// NopJournal discards every record.
type NopJournal struct{}

func (NopJournal) OrderSent(float64, schema.OrderRecord)      {}
func (NopJournal) OrderFilled(float64, schema.OrderRecord)    {}
func (NopJournal) OrderCancelled(float64, schema.OrderRecord) {}
func (NopJournal) Price(float64, schema.PriceRecord)          {}
func (NopJournal) Book(float64, schema.BookRecord)            {}
func (NopJournal) TradeTicks(float64, schema.BookRecord)      {}
func (NopJournal) Signal(float64, schema.SignalRecord)        {}
