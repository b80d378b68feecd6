package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency     string    `gorm:"size:3;default:'GBP'" json:"currency"`
	IntervalDays int       `gorm:"not null;default:30" json:"interval_days"`
	MaxVehicles  int       `gorm:"not null;default:10" json:"max_vehicles"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
