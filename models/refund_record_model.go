package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RefundStatusPending   = "pending"
	RefundStatusSucceeded = "succeeded"
	RefundStatusFailed    = "failed"
	RefundStatusDisputed  = "disputed"
)

// RefundRecord is the durable intent written before the outbound gateway
// refund call. The partial unique index keeps at most one pending record per
// (booking, originating transaction) so a retry or double-click cannot submit
// a second refund while the first is in flight.
type RefundRecord struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID            uuid.UUID `gorm:"not null;index:ux_refund_records_active,unique,where:status = 'pending'" json:"booking_id"`
	PaymentTransactionID uuid.UUID `gorm:"not null;index:ux_refund_records_active,unique,where:status = 'pending'" json:"payment_transaction_id"`
	Amount               float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status               string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	GatewayRefundID      *string   `gorm:"size:255;unique" json:"gateway_refund_id"`
	FailureReason        *string   `gorm:"type:text" json:"failure_reason"`

	DisputeReason     *string    `gorm:"type:text" json:"dispute_reason"`
	DisputeResolvedBy *uuid.UUID `json:"dispute_resolved_by"`
	DisputeResolvedAt *time.Time `json:"dispute_resolved_at"`

	ProcessedAt *time.Time `json:"processed_at"`

	Booking            Booking            `gorm:"foreignkey:BookingID" json:"booking,omitempty"`
	PaymentTransaction PaymentTransaction `gorm:"foreignkey:PaymentTransactionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefundTerminal reports whether a refund record has reached a state that
// webhook ingestion must not move it out of. Disputed counts: once a record
// is under dispute, admin resolution is the only way out, and a replayed
// refund-outcome webhook must not short-circuit it.
func (r *RefundRecord) RefundTerminal() bool {
	return r.Status == RefundStatusSucceeded ||
		r.Status == RefundStatusFailed ||
		r.Status == RefundStatusDisputed
}
