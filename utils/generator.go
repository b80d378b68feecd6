package utils

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/models"
)

const bookingReferenceLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueBookingReference returns a reference of the form VB-XXXXXXXX
// that no existing booking carries. References are immutable once assigned.
func GenerateUniqueBookingReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, bookingReferenceLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		ref := "VB-" + string(b)

		var booking models.Booking
		err := tx.Where("booking_reference = ?", ref).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ref, nil
			}
			return "", err
		}
	}
}
