package models

import "time"

// EventKind is the canonical meaning of a gateway webhook, independent of the
// gateway's own event-type vocabulary.
type EventKind string

const (
	KindSucceeded      EventKind = "SUCCEEDED"
	KindFailed         EventKind = "FAILED"
	KindRequiresAction EventKind = "REQUIRES_ACTION"
	KindCancelled      EventKind = "CANCELLED"
	KindPending        EventKind = "PENDING"

	// KindIgnored marks informational gateway events outside the payment
	// lifecycle. They are acknowledged and logged, never processed.
	KindIgnored EventKind = "IGNORED"
)

// PaymentEvent is the normalized, in-memory representation of one webhook
// delivery. It is never persisted; the processor applies it to a Payment row.
type PaymentEvent struct {
	Gateway           string
	ExternalReference string // transaction/order id as the gateway knows it
	Kind              EventKind
	ResponseCode      string
	ResponseMessage   string
	CardLastFour      string
	CardBrand         string
	AmountMinor       int64  // 0 when the gateway omits the amount
	RawPayloadDigest  string // sha256 of the raw body, for replay detection
}

// PaymentStatusEvent is published to Kafka after a transition is applied so
// order fulfillment can react without polling the payments table.
type PaymentStatusEvent struct {
	Type        string    `json:"type"` // e.g. "payment_completed"
	PaymentID   string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	Gateway     string    `json:"gateway"`
	Status      string    `json:"status"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}
