package journal

import (
	"context"
	"errors"
	"time"

	"main/internal/bus"
	"main/internal/obs"
	"main/internal/schema"
)

// Publisher encodes audit records and hands them to the record queue. It
// never blocks the decision core: a full queue drops the record and counts
// the drop.
type Publisher struct {
	queue   *bus.Queue
	seq     *obs.SeqGenerator
	metrics *obs.Metrics
}

// NewPublisher creates a publisher on the given queue. metrics may be nil.
func NewPublisher(queue *bus.Queue, metrics *obs.Metrics) *Publisher {
	return &Publisher{
		queue:   queue,
		seq:     obs.NewSeqGenerator(0),
		metrics: metrics,
	}
}

// OrderSent records an accepted outbound order.
func (p *Publisher) OrderSent(now float64, rec schema.OrderRecord) {
	p.publish(schema.RecordOrderSent, now, EncodeOrder(rec))
}

// OrderFilled records a fill.
func (p *Publisher) OrderFilled(now float64, rec schema.OrderRecord) {
	p.publish(schema.RecordOrderFilled, now, EncodeOrder(rec))
}

// OrderCancelled records an outbound cancel.
func (p *Publisher) OrderCancelled(now float64, rec schema.OrderRecord) {
	p.publish(schema.RecordOrderCancelled, now, EncodeOrder(rec))
}

// Price records a fair value estimate.
func (p *Publisher) Price(now float64, rec schema.PriceRecord) {
	p.publish(schema.RecordPrice, now, EncodePrice(rec))
}

// Book records an order book snapshot with its fair value.
func (p *Publisher) Book(now float64, rec schema.BookRecord) {
	p.publish(schema.RecordBook, now, EncodeBook(rec))
}

// TradeTicks records a trade tick snapshot.
func (p *Publisher) TradeTicks(now float64, rec schema.BookRecord) {
	p.publish(schema.RecordTradeTicks, now, EncodeBook(rec))
}

// Signal records an active signal.
func (p *Publisher) Signal(now float64, rec schema.SignalRecord) {
	p.publish(schema.RecordSignal, now, EncodeSignal(rec))
}

func (p *Publisher) publish(recordType schema.RecordType, now float64, payload []byte) {
	header := schema.NewRecordHeader(recordType, p.seq.Next(), now, time.Now().UTC().UnixNano())
	err := p.queue.TryPublish(bus.Event{Header: header, Payload: payload})
	switch {
	case errors.Is(err, bus.ErrQueueFull):
		p.metrics.IncJournalDrop()
	case errors.Is(err, bus.ErrQueueClosed):
		p.metrics.IncJournalClosed()
	}
}

// Pump forwards queued records into the writer until the context is done or
// the queue closes. Records the writer cannot take are counted as drops.
func Pump(ctx context.Context, queue *bus.Queue, writer *Writer, metrics *obs.Metrics) {
	queue.Run(ctx, func(e bus.Event) {
		if err := writer.TryAppend(e.Header, e.Payload); err != nil {
			metrics.IncJournalDrop()
		}
	})
}
