package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valetly/valetly_backend/models"
)

func newBooking(status string, scheduledAt time.Time) *models.Booking {
	return &models.Booking{
		ID:               uuid.New(),
		BookingReference: "VB-TEST0001",
		UserID:           uuid.New(),
		Status:           status,
		ScheduledAt:      scheduledAt,
		TotalAmount:      60.00,
		Currency:         "GBP",
	}
}

func TestCancelBookingFromCancellableStates(t *testing.T) {
	now := time.Now().UTC()
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusScheduled,
	} {
		b := newBooking(status, now.Add(48*time.Hour))
		effects, err := CancelBooking(b, now)
		require.NoError(t, err, "status %s should be cancellable", status)
		assert.Equal(t, models.BookingStatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		require.Len(t, effects, 1)
		cancelled, ok := effects[0].(BookingCancelled)
		require.True(t, ok)
		assert.Equal(t, b.ID, cancelled.BookingID)
	}
}

func TestCancelBookingGuardedStates(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		status string
		reason string
	}{
		{models.BookingStatusInProgress, "service already in progress"},
		{models.BookingStatusCompleted, "service already completed"},
		{models.BookingStatusCancelled, "booking is already cancelled"},
	}
	for _, tc := range cases {
		b := newBooking(tc.status, now.Add(48*time.Hour))
		effects, err := CancelBooking(b, now)
		require.Error(t, err)
		assert.Nil(t, effects)

		var ite *InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, tc.reason, ite.Reason)
		assert.Equal(t, tc.status, b.Status, "status must be unchanged after a rejected transition")
	}
}

func TestRefundEligibilityBoundary(t *testing.T) {
	appointment := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)

	assert.True(t, RefundEligible(appointment, appointment.Add(-13*time.Hour)))
	assert.False(t, RefundEligible(appointment, appointment.Add(-11*time.Hour-59*time.Minute)))
	// exactly 12h of notice is exclusive
	assert.False(t, RefundEligible(appointment, appointment.Add(-12*time.Hour)))
	assert.True(t, RefundEligible(appointment, appointment.Add(-12*time.Hour-time.Second)))
}

func TestCompleteBookingIdempotent(t *testing.T) {
	now := time.Now().UTC()
	b := newBooking(models.BookingStatusInProgress, now.Add(-2*time.Hour))

	effects, err := CompleteBooking(b, now)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	// duplicate completion event is a no-op, not an error
	effects, err = CompleteBooking(b, now)
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)
}

func TestCompleteBookingFromPendingRejected(t *testing.T) {
	now := time.Now().UTC()
	b := newBooking(models.BookingStatusPending, now.Add(time.Hour))

	_, err := CompleteBooking(b, now)
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.BookingStatusPending, b.Status)
}

func TestBookingTransitionGraph(t *testing.T) {
	assert.True(t, CanTransitionBooking(models.BookingStatusPending, models.BookingStatusConfirmed))
	assert.True(t, CanTransitionBooking(models.BookingStatusConfirmed, models.BookingStatusInProgress))
	assert.True(t, CanTransitionBooking(models.BookingStatusScheduled, models.BookingStatusInProgress))
	assert.True(t, CanTransitionBooking(models.BookingStatusInProgress, models.BookingStatusCompleted))

	assert.False(t, CanTransitionBooking(models.BookingStatusCompleted, models.BookingStatusCancelled))
	assert.False(t, CanTransitionBooking(models.BookingStatusInProgress, models.BookingStatusCancelled))
	assert.False(t, CanTransitionBooking(models.BookingStatusCancelled, models.BookingStatusConfirmed))
	assert.False(t, CanTransitionBooking(models.BookingStatusPending, models.BookingStatusCompleted))
}
