package jobs

import (
	"log"
	"time"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/models"
)

// Pending bookings that were never paid for are abandoned after this long.
const stalePendingAge = 24 * time.Hour

func ExpireStalePendingBookings() {
	log.Println("Running job: ExpireStalePendingBookings...")

	cutoff := time.Now().UTC().Add(-stalePendingAge)

	var staleBookings []models.Booking
	err := database.DB.
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&staleBookings).Error
	if err != nil {
		log.Printf("Error checking for stale pending bookings: %v", err)
		return
	}

	if len(staleBookings) == 0 {
		return
	}

	now := time.Now().UTC()
	for _, booking := range staleBookings {
		booking.Status = models.BookingStatusCancelled
		booking.CancelledAt = &now
		database.DB.Save(&booking)
	}

	log.Printf("Cancelled %d stale pending booking(s).", len(staleBookings))
}
