// Package exchange defines the outbound session collaborator and an
// in-memory simulation of it used by the run loop and the end-to-end tests.
package exchange

import "main/internal/schema"

// Session is the outbound side of the exchange connection. Implementations
// accept the action and report it later through notices; all validation and
// rate gating happens before these calls.
type Session interface {
	PlaceOrder(id uint64, side schema.Side, price schema.Price, volume schema.Volume, tif schema.TimeInForce) error
	PlaceHedgeOrder(id uint64, side schema.Side, price schema.Price, volume schema.Volume) error
	CancelOrder(id uint64) error
}

// NoticeType tags an asynchronous notification from the exchange.
type NoticeType uint8

const (
	NoticeFill NoticeType = iota + 1
	NoticeStatus
	NoticeError
)

// Notice is one asynchronous notification. Fill notices carry Price and
// Volume; status notices carry Volume filled so far and Remaining; error
// notices carry Message.
type Notice struct {
	Type      NoticeType
	OrderID   uint64
	Hedge     bool
	Price     schema.Price
	Volume    schema.Volume
	Remaining schema.Volume
	Fees      schema.Notional
	Message   string
}
