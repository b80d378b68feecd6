package models

import (
	"time"

	"github.com/google/uuid"
)

type Fleet struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	OwnerUserID uuid.UUID `gorm:"not null" json:"owner_user_id"`

	// HasUsedTrial is set permanently the first time a trial is granted.
	// A fleet gets at most one trial, ever.
	HasUsedTrial bool `gorm:"default:false" json:"has_used_trial"`

	Owner User `gorm:"foreignkey:OwnerUserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
