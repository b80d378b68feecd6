package models

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"not null" json:"user_id"`
	Registration string    `gorm:"size:20;not null" json:"registration"`
	Make         string    `gorm:"size:100" json:"make"`
	Model        string    `gorm:"size:100" json:"model"`
	Colour       *string   `gorm:"size:50" json:"colour"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
