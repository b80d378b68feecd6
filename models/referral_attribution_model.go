package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralAttribution links a referred user to the partner who referred them.
// The link expires: an attribution past ExpiresAt yields no partner.
type ReferralAttribution struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PartnerID uuid.UUID  `gorm:"not null" json:"partner_id"`
	UserID    uuid.UUID  `gorm:"not null;unique" json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at"`

	Partner Partner `gorm:"foreignkey:PartnerID" json:"-"`
	User    User    `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
