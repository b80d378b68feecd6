package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusTrialing  = "trialing"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPastDue   = "past_due"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

type FleetSubscription struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FleetID uuid.UUID `gorm:"not null" json:"fleet_id"`
	PlanID  uuid.UUID `gorm:"not null" json:"plan_id"`
	Status  string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	IsEarlyAdopter bool       `gorm:"default:false" json:"is_early_adopter"`
	TrialStart     *time.Time `json:"trial_start"`
	TrialEnd       *time.Time `json:"trial_end"`

	PaymentFailureCount int        `gorm:"default:0" json:"payment_failure_count"`
	GracePeriodEnd      *time.Time `json:"grace_period_end"`
	AutoRenew           bool       `gorm:"default:true" json:"auto_renew"`

	CancelledAt *time.Time `json:"cancelled_at"`

	Fleet Fleet            `gorm:"foreignkey:FleetID" json:"-"`
	Plan  SubscriptionPlan `gorm:"foreignkey:PlanID" json:"plan"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionTerminal reports whether the subscription can never return to
// service. At most one non-terminal subscription may exist per fleet.
func (s *FleetSubscription) SubscriptionTerminal() bool {
	return s.Status == SubscriptionStatusCancelled || s.Status == SubscriptionStatusExpired
}
