package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusScheduled  = "scheduled"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

type Booking struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingReference string     `gorm:"size:12;not null;unique" json:"booking_reference"`
	UserID           uuid.UUID  `gorm:"not null" json:"user_id"`
	VehicleID        *uuid.UUID `json:"vehicle_id"`
	DetailerID       *uuid.UUID `json:"detailer_id"`
	Status           string     `gorm:"size:20;not null;default:'pending'" json:"status"`

	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	TotalAmount     float64   `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Currency        string    `gorm:"size:3;default:'GBP'" json:"currency"`
	ServiceNotes    *string   `gorm:"type:text" json:"service_notes"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	User    User     `gorm:"foreignkey:UserID" json:"-"`
	Vehicle *Vehicle `gorm:"foreignkey:VehicleID" json:"vehicle,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
