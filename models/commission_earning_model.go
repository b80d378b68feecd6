package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EarningStatusPending  = "pending"
	EarningStatusApproved = "approved"
	EarningStatusPaid     = "paid"
	EarningStatusReversed = "reversed"
	EarningStatusDisputed = "disputed"
)

// CommissionEarning is a partner's share of a completed booking. The
// composite unique index on (partner_id, booking_id) is what makes earning
// creation exactly-once no matter how often the completion trigger fires.
type CommissionEarning struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PartnerID        uuid.UUID `gorm:"not null;index:ux_commission_earnings_partner_booking,unique,priority:1" json:"partner_id"`
	BookingID        uuid.UUID `gorm:"not null;index:ux_commission_earnings_partner_booking,unique,priority:2" json:"booking_id"`
	GrossAmount      float64   `gorm:"type:numeric(10,2);not null" json:"gross_amount"`
	Rate             float64   `gorm:"type:numeric(5,2);not null" json:"rate"`
	CommissionAmount float64   `gorm:"type:numeric(10,2);not null" json:"commission_amount"`
	Status           string    `gorm:"size:20;not null;default:'approved'" json:"status"`

	Partner Partner `gorm:"foreignkey:PartnerID" json:"-"`
	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
