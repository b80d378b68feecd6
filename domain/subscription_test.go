package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valetly/valetly_backend/models"
)

func TestTrialLengthEarlyAdopterCutoff(t *testing.T) {
	// count==19 before creation: still inside the first 20, gets 60 days
	days, early := TrialLength(19)
	assert.Equal(t, EarlyAdopterTrialDays, days)
	assert.True(t, early)

	// count==20: the limit is used up, gets the standard 30 days
	days, early = TrialLength(20)
	assert.Equal(t, StandardTrialDays, days)
	assert.False(t, early)

	days, early = TrialLength(0)
	assert.Equal(t, EarlyAdopterTrialDays, days)
	assert.True(t, early)
}

func TestTrialAllowed(t *testing.T) {
	paid := &models.SubscriptionPlan{Price: 199.00}
	free := &models.SubscriptionPlan{Price: 0}
	fresh := &models.Fleet{}
	used := &models.Fleet{HasUsedTrial: true}

	assert.True(t, TrialAllowed(paid, fresh))
	assert.False(t, TrialAllowed(free, fresh))
	assert.False(t, TrialAllowed(paid, used))
}

func TestApplyBillingFailureGracePeriod(t *testing.T) {
	now := time.Now().UTC()
	s := &models.FleetSubscription{
		ID:      uuid.New(),
		FleetID: uuid.New(),
		Status:  models.SubscriptionStatusActive,
	}

	effects := ApplyBillingFailure(s, now)
	assert.Equal(t, models.SubscriptionStatusPastDue, s.Status)
	assert.Equal(t, 1, s.PaymentFailureCount)
	require.NotNil(t, s.GracePeriodEnd)
	assert.WithinDuration(t, now.Add(GracePeriodDays*24*time.Hour), *s.GracePeriodEnd, time.Second)
	require.Len(t, effects, 1)
	assert.IsType(t, SubscriptionPastDue{}, effects[0])

	// second failure inside grace keeps past_due with a refreshed grace end
	effects = ApplyBillingFailure(s, now.Add(24*time.Hour))
	assert.Equal(t, models.SubscriptionStatusPastDue, s.Status)
	assert.Equal(t, 2, s.PaymentFailureCount)
	assert.IsType(t, SubscriptionPastDue{}, effects[0])

	// failure after the grace period has lapsed cancels
	effects = ApplyBillingFailure(s, s.GracePeriodEnd.Add(time.Hour))
	assert.Equal(t, models.SubscriptionStatusCancelled, s.Status)
	require.NotNil(t, s.CancelledAt)
	require.Len(t, effects, 1)
	assert.IsType(t, SubscriptionCancelled{}, effects[0])
}

func TestApplyBillingSuccessResetsFailures(t *testing.T) {
	now := time.Now().UTC()
	grace := now.Add(-time.Hour)
	s := &models.FleetSubscription{
		ID:                  uuid.New(),
		FleetID:             uuid.New(),
		Status:              models.SubscriptionStatusPastDue,
		PaymentFailureCount: 1,
		GracePeriodEnd:      &grace,
	}

	effects := ApplyBillingSuccess(s, now, 30)
	assert.Equal(t, models.SubscriptionStatusActive, s.Status)
	assert.Zero(t, s.PaymentFailureCount)
	assert.Nil(t, s.GracePeriodEnd)
	require.NotNil(t, s.EndDate)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), *s.EndDate, time.Second)
	require.Len(t, effects, 1)
	assert.IsType(t, SubscriptionRenewed{}, effects[0])
}

func TestApplyBillingSuccessAnchorsAtAnniversary(t *testing.T) {
	now := time.Now().UTC()

	// webhook settles a day late: the new period still runs from the old
	// end date, not from when the payment landed
	anniversary := now.Add(-24 * time.Hour)
	s := &models.FleetSubscription{
		ID:      uuid.New(),
		FleetID: uuid.New(),
		Status:  models.SubscriptionStatusPastDue,
		EndDate: &anniversary,
	}
	ApplyBillingSuccess(s, now, 30)
	assert.WithinDuration(t, anniversary.Add(30*24*time.Hour), *s.EndDate, time.Second)

	// payment arriving early extends from the future end date
	future := now.Add(5 * 24 * time.Hour)
	s = &models.FleetSubscription{Status: models.SubscriptionStatusActive, EndDate: &future}
	ApplyBillingSuccess(s, now, 30)
	assert.WithinDuration(t, future.Add(30*24*time.Hour), *s.EndDate, time.Second)

	// a period that lapsed beyond the grace window restarts from now
	stale := now.Add(-(GracePeriodDays + 1) * 24 * time.Hour)
	s = &models.FleetSubscription{Status: models.SubscriptionStatusPastDue, EndDate: &stale}
	ApplyBillingSuccess(s, now, 30)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), *s.EndDate, time.Second)
}

func TestExpireIfLapsed(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)

	s := &models.FleetSubscription{Status: models.SubscriptionStatusActive, EndDate: &past, AutoRenew: false}
	assert.True(t, ExpireIfLapsed(s, now))
	assert.Equal(t, models.SubscriptionStatusExpired, s.Status)

	// already expired: sweep re-run is a no-op
	assert.False(t, ExpireIfLapsed(s, now))

	// auto-renewing subscriptions are left for the billing cycle
	renewing := &models.FleetSubscription{Status: models.SubscriptionStatusActive, EndDate: &past, AutoRenew: true}
	assert.False(t, ExpireIfLapsed(renewing, now))

	future := now.Add(time.Hour)
	current := &models.FleetSubscription{Status: models.SubscriptionStatusActive, EndDate: &future}
	assert.False(t, ExpireIfLapsed(current, now))
}

func TestCancelSubscription(t *testing.T) {
	now := time.Now().UTC()
	s := &models.FleetSubscription{ID: uuid.New(), FleetID: uuid.New(), Status: models.SubscriptionStatusTrialing, AutoRenew: true}

	effects, err := CancelSubscription(s, now)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, s.Status)
	assert.False(t, s.AutoRenew)
	require.Len(t, effects, 1)

	_, err = CancelSubscription(s, now)
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)

	// every non-terminal status a superseded subscription can be in must
	// cancel through the same transition
	for _, status := range []string{
		models.SubscriptionStatusPending,
		models.SubscriptionStatusActive,
		models.SubscriptionStatusPastDue,
	} {
		old := &models.FleetSubscription{ID: uuid.New(), FleetID: uuid.New(), Status: status, AutoRenew: true}
		effects, err := CancelSubscription(old, now)
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, models.SubscriptionStatusCancelled, old.Status)
		assert.False(t, old.AutoRenew)
		require.Len(t, effects, 1)
		assert.IsType(t, SubscriptionCancelled{}, effects[0])
	}
}
