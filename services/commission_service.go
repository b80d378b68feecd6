package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
)

// PartnerForUser resolves the referring partner for a user through the
// time-bounded attribution link. An expired attribution yields no partner.
// Partner identity is validated rather than trusted: historical data carried
// duplicate detailer profiles, so a dangling or deactivated partner row also
// yields none.
func PartnerForUser(tx *gorm.DB, userID uuid.UUID, now time.Time) (*models.Partner, error) {
	var attribution models.ReferralAttribution
	err := tx.Where("user_id = ?", userID).First(&attribution).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !domain.AttributionValid(attribution.ExpiresAt, now) {
		return nil, nil
	}

	var partner models.Partner
	err = tx.Where("id = ? AND is_active = ?", attribution.PartnerID, true).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Attribution %s points at a missing or inactive partner, skipping", attribution.ID)
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// CreateEarningForBooking creates the partner's commission for a completed
// booking. Exactly-once is enforced by the existence check plus the unique
// (partner_id, booking_id) index, not by any in-process mutual exclusion, so
// the completion trigger may fire as often as it likes.
func CreateEarningForBooking(bookingID uuid.UUID) error {
	now := time.Now().UTC()

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if booking.Status != models.BookingStatusCompleted {
			return nil
		}

		partner, err := PartnerForUser(tx, booking.UserID, now)
		if err != nil {
			return err
		}
		if partner == nil {
			return nil
		}

		var existing models.CommissionEarning
		err = tx.Where("partner_id = ? AND booking_id = ?", partner.ID, booking.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		earning := models.CommissionEarning{
			PartnerID:        partner.ID,
			BookingID:        booking.ID,
			GrossAmount:      booking.TotalAmount,
			Rate:             partner.CommissionRate,
			CommissionAmount: domain.CommissionAmount(booking.TotalAmount, partner.CommissionRate),
			Status:           models.EarningStatusApproved,
		}
		return tx.Create(&earning).Error
	})
}

// ReverseEarningForBooking flips a booking's earning to reversed after a
// succeeded refund. The earning is never deleted and its amount is left
// untouched for the audit trail.
func ReverseEarningForBooking(bookingID uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var earning models.CommissionEarning
		err := tx.Clauses(rowLock()).Where("booking_id = ?", bookingID).First(&earning).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if earning.Status == models.EarningStatusReversed {
			return nil
		}

		earning.Status = models.EarningStatusReversed
		return tx.Save(&earning).Error
	})
}
