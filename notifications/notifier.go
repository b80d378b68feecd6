package notifications

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/models"
)

// Notify delivers a user-facing notification. It is strictly best-effort:
// every failure is swallowed here so a payment, refund or booking state
// change can never be rolled back by a delivery problem.
func Notify(db *gorm.DB, userID uuid.UUID, title, body, typeTag string) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("notify(%s): user %s not found, skipping", typeTag, userID)
		return
	}

	SendEmail(user.FullName, user.Email, title, "<h1>"+title+"</h1><p>"+body+"</p>")
}
