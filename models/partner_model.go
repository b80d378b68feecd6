package models

import (
	"time"

	"github.com/google/uuid"
)

// Partner is a referring detailer/affiliate. Phone numbers are not assumed
// unique here: historical data contained duplicate detailer profiles, so
// lookups validate identity instead of trusting referential integrity.
type Partner struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	PhoneNumber    string    `gorm:"size:20;not null" json:"phone_number"`
	CommissionRate float64   `gorm:"type:numeric(5,2);not null;default:10.00" json:"commission_rate"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
