package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/database"
	"github.com/valetly/valetly_backend/domain"
	"github.com/valetly/valetly_backend/models"
)

// CancellationResult is what the cancellation endpoint returns. The response
// distinguishes "booking cancelled, refund failed" from "booking cancelled,
// no refund due".
type CancellationResult struct {
	Status string        `json:"status"`
	Refund RefundOutcome `json:"refund"`
}

// CancelBooking applies the user-initiated cancellation and, when the
// cancellation gives more than 12 hours notice, kicks off the refund
// protocol. Refund eligibility is evaluated exactly once, against the wall
// clock at the moment of cancellation.
func CancelBooking(userID uuid.UUID, bookingRef string) (*CancellationResult, error) {
	now := time.Now().UTC()

	var booking models.Booking
	var effects []domain.Effect
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(rowLock()).
			Where("booking_reference = ? AND user_id = ?", bookingRef, userID).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		effects, err = domain.CancelBooking(&booking, now)
		if err != nil {
			return err
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	// best-effort: notification failures never undo the cancellation
	Dispatch(effects)

	result := &CancellationResult{Status: booking.Status}
	if domain.RefundEligible(booking.ScheduledAt, now) {
		result.Refund = InitiateRefund(&booking)
	} else {
		result.Refund = RefundOutcome{Eligible: false}
	}
	return result, nil
}

// CompleteBooking applies the detailer-driven completion transition. A
// duplicate completion event for an already-completed booking returns the
// booking unchanged.
func CompleteBooking(bookingRef string) (*models.Booking, error) {
	now := time.Now().UTC()

	var booking models.Booking
	var effects []domain.Effect
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(rowLock()).
			Where("booking_reference = ?", bookingRef).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		effects, err = domain.CompleteBooking(&booking, now)
		if err != nil {
			return err
		}
		if len(effects) == 0 {
			return nil
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	Dispatch(effects)
	return &booking, nil
}

// ConfirmBookingPayment moves a pending booking to confirmed once its
// payment has settled. Called from webhook ingestion; a booking already past
// pending is left alone.
func ConfirmBookingPayment(tx *gorm.DB, booking *models.Booking) error {
	if booking.Status != models.BookingStatusPending {
		return nil
	}
	booking.Status = models.BookingStatusConfirmed
	return tx.Save(booking).Error
}
