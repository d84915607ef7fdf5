package models

import (
	"time"

	"github.com/google/uuid"
)

// Gateway identifiers. Stored as strings on the payment row so the DB stays
// readable; the providers package owns the mapping to endpoints and secrets.
const (
	GatewayStripe   = "STRIPE"
	GatewayRazorpay = "RAZORPAY"
	GatewayPayu     = "PAYU"
	GatewayCashfree = "CASHFREE"
	GatewayUpi      = "UPI"
)

// Payment statuses. COMPLETED, FAILED and CANCELLED are terminal: once a row
// reaches one of them no webhook may move it anywhere else.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

// TerminalStatuses is the set of write-once final statuses.
var TerminalStatuses = map[string]bool{
	StatusCompleted: true,
	StatusFailed:    true,
	StatusCancelled: true,
}

// Payment is created by the payment-initiation flow in PENDING with the
// gateway transaction id already assigned; from then on it is mutated only by
// the webhook processor. Version increments on every successful update and is
// the compare-and-swap token for concurrent deliveries.
type Payment struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;index;not null"`
	Gateway              string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_gateway_txn"`
	GatewayTransactionID *string   `gorm:"type:varchar(100);uniqueIndex:idx_gateway_txn"`
	UpiTransactionID     *string   `gorm:"type:varchar(100);index"`
	AmountMinor          int64     `gorm:"not null"` // smallest currency unit
	Currency             string    `gorm:"type:varchar(3);not null"`
	Status               string    `gorm:"type:varchar(20);not null"`
	ResponseCode         *string   `gorm:"type:varchar(50)"`
	ResponseMessage      *string
	CardLastFour         *string `gorm:"type:varchar(4)"`
	CardBrand            *string `gorm:"type:varchar(20)"`
	Version              int64   `gorm:"not null;default:1"`
	CompletedAt          *time.Time
	FailedAt             *time.Time
	CancelledAt          *time.Time
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

// IsTerminal reports whether the payment has reached a final status.
func (p *Payment) IsTerminal() bool {
	return TerminalStatuses[p.Status]
}
