package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BillingStatusPending  = "pending"
	BillingStatusPaid     = "paid"
	BillingStatusFailed   = "failed"
	BillingStatusRefunded = "refunded"
)

// SubscriptionBilling is one row per billing cycle/attempt. The gateway
// transaction id is the idempotency key used by webhook ingestion when it
// flips the row to paid or failed.
type SubscriptionBilling struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SubscriptionID uuid.UUID `gorm:"not null" json:"subscription_id"`
	Amount         float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency       string    `gorm:"size:3;default:'GBP'" json:"currency"`
	BillingDate    time.Time `gorm:"not null" json:"billing_date"`
	Status         string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	GatewayTransactionID *string `gorm:"size:255;unique" json:"gateway_transaction_id"`
	FailureReason        *string `gorm:"type:text" json:"failure_reason"`

	Subscription FleetSubscription `gorm:"foreignkey:SubscriptionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
