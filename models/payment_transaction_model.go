package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionTypePayment = "payment"
	TransactionTypeRefund  = "refund"
)

const (
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
	TransactionStatusPending   = "pending"
)

// PaymentTransaction is an append-only ledger row. Rows are created only by
// webhook ingestion or the refund coordinator's confirmed path and are never
// updated afterwards. GatewayIntentID carries the hard uniqueness constraint
// that makes ingestion idempotent.
type PaymentTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Type            string     `gorm:"size:20;not null" json:"type"`
	Amount          float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency        string     `gorm:"size:3;not null" json:"currency"`
	GatewayIntentID string     `gorm:"size:255;not null;unique" json:"gateway_intent_id"`
	Status          string     `gorm:"size:20;not null" json:"status"`
	BookingID       *uuid.UUID `json:"booking_id"`
	UserID          uuid.UUID  `gorm:"not null" json:"user_id"`

	Booking *Booking `gorm:"foreignkey:BookingID" json:"-"`
	User    User     `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
