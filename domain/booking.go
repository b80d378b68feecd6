package domain

import (
	"time"

	"github.com/valetly/valetly_backend/models"
)

// RefundEligibilityWindow is the minimum notice a customer must give for a
// cancellation to qualify for a refund. The comparison is exclusive: exactly
// 12 hours of notice is not enough.
const RefundEligibilityWindow = 12 * time.Hour

var bookingTransitions = map[string][]string{
	models.BookingStatusPending:    {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed:  {models.BookingStatusScheduled, models.BookingStatusInProgress, models.BookingStatusCompleted, models.BookingStatusCancelled},
	models.BookingStatusScheduled:  {models.BookingStatusInProgress, models.BookingStatusCancelled},
	models.BookingStatusInProgress: {models.BookingStatusCompleted},
	models.BookingStatusCompleted:  {},
	models.BookingStatusCancelled:  {},
}

// CanTransitionBooking reports whether the booking status graph allows the
// move from one status to another.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RefundEligible is evaluated once, at the wall-clock moment of cancellation.
// Appointment times are stored in UTC; the subtraction is between absolute
// instants, so the 12-hour boundary does not depend on the display timezone.
func RefundEligible(scheduledAt, now time.Time) bool {
	return scheduledAt.Sub(now) > RefundEligibilityWindow
}

// CancelBooking applies the user-initiated cancellation transition. It
// mutates the booking in place and returns the effects to dispatch after
// commit. It does not decide or perform the refund; the caller evaluates
// RefundEligible separately because cancellation and refund are independent
// outcomes.
func CancelBooking(b *models.Booking, now time.Time) ([]Effect, error) {
	switch b.Status {
	case models.BookingStatusInProgress:
		return nil, &InvalidTransitionError{From: b.Status, To: models.BookingStatusCancelled, Reason: "service already in progress"}
	case models.BookingStatusCompleted:
		return nil, &InvalidTransitionError{From: b.Status, To: models.BookingStatusCancelled, Reason: "service already completed"}
	case models.BookingStatusCancelled:
		return nil, &InvalidTransitionError{From: b.Status, To: models.BookingStatusCancelled, Reason: "booking is already cancelled"}
	}
	if !CanTransitionBooking(b.Status, models.BookingStatusCancelled) {
		return nil, &InvalidTransitionError{From: b.Status, To: models.BookingStatusCancelled}
	}

	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &now

	return []Effect{BookingCancelled{
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
		DetailerID:       b.DetailerID,
	}}, nil
}

// CompleteBooking applies the detailer-driven completion transition. A
// duplicate completion event for an already-completed booking is a no-op with
// no effects, not an error.
func CompleteBooking(b *models.Booking, now time.Time) ([]Effect, error) {
	if b.Status == models.BookingStatusCompleted {
		return nil, nil
	}
	if !CanTransitionBooking(b.Status, models.BookingStatusCompleted) {
		return nil, &InvalidTransitionError{From: b.Status, To: models.BookingStatusCompleted}
	}

	b.Status = models.BookingStatusCompleted
	b.CompletedAt = &now

	return []Effect{BookingCompleted{
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
	}}, nil
}
