package domain

import (
	"time"

	"github.com/valetly/valetly_backend/models"
)

const (
	// EarlyAdopterLimit caps how many fleets receive the extended trial.
	EarlyAdopterLimit = 20

	EarlyAdopterTrialDays = 60
	StandardTrialDays     = 30

	// GracePeriodDays is how long a past_due subscription keeps service
	// after a failed billing attempt.
	GracePeriodDays = 7
)

// TrialLength decides the trial for a new subscription given how many
// early-adopter subscriptions already exist. The count is taken before this
// subscription is created, so count 19 still lands inside the limit.
func TrialLength(earlyAdopterCount int64) (days int, earlyAdopter bool) {
	if earlyAdopterCount < EarlyAdopterLimit {
		return EarlyAdopterTrialDays, true
	}
	return StandardTrialDays, false
}

// TrialAllowed gates trial assignment: only paid plans carry a trial and a
// fleet that has used its trial never gets another.
func TrialAllowed(plan *models.SubscriptionPlan, fleet *models.Fleet) bool {
	return plan.Price > 0 && !fleet.HasUsedTrial
}

// ApplyBillingFailure handles one failed billing webhook. The first failure
// moves the subscription to past_due with a fresh grace period; a further
// failure arriving after the grace period has lapsed cancels it.
func ApplyBillingFailure(s *models.FleetSubscription, now time.Time) []Effect {
	s.PaymentFailureCount++

	if s.Status == models.SubscriptionStatusPastDue && s.GracePeriodEnd != nil && now.After(*s.GracePeriodEnd) {
		s.Status = models.SubscriptionStatusCancelled
		s.CancelledAt = &now
		return []Effect{SubscriptionCancelled{SubscriptionID: s.ID, FleetID: s.FleetID}}
	}

	graceEnd := now.Add(GracePeriodDays * 24 * time.Hour)
	s.Status = models.SubscriptionStatusPastDue
	s.GracePeriodEnd = &graceEnd
	return []Effect{SubscriptionPastDue{SubscriptionID: s.ID, FleetID: s.FleetID}}
}

// ApplyBillingSuccess handles one paid billing webhook: the failure counter
// resets, any grace period clears and the current period extends by the plan
// interval.
func ApplyBillingSuccess(s *models.FleetSubscription, now time.Time, intervalDays int) []Effect {
	s.PaymentFailureCount = 0
	s.GracePeriodEnd = nil
	s.Status = models.SubscriptionStatusActive

	// anchor the new period at the billing anniversary, not the webhook's
	// arrival time, so late-settling payments do not drift the cycle; a
	// period that lapsed longer ago than the grace window restarts from now
	base := now
	if s.EndDate != nil && s.EndDate.After(now.Add(-GracePeriodDays*24*time.Hour)) {
		base = *s.EndDate
	}
	end := base.Add(time.Duration(intervalDays) * 24 * time.Hour)
	s.EndDate = &end

	return []Effect{SubscriptionRenewed{SubscriptionID: s.ID, FleetID: s.FleetID}}
}

// ExpireIfLapsed moves a subscription whose end date has passed without
// renewal to expired. Re-running it on an already-expired row is a no-op, so
// the background sweep stays idempotent.
func ExpireIfLapsed(s *models.FleetSubscription, now time.Time) bool {
	if s.SubscriptionTerminal() {
		return false
	}
	if s.EndDate == nil || !now.After(*s.EndDate) {
		return false
	}
	if s.AutoRenew && s.Status != models.SubscriptionStatusPending {
		return false
	}
	s.Status = models.SubscriptionStatusExpired
	return true
}

// CancelSubscription applies a fleet-initiated cancellation. Cancelling an
// already-terminal subscription is rejected.
func CancelSubscription(s *models.FleetSubscription, now time.Time) ([]Effect, error) {
	if s.SubscriptionTerminal() {
		return nil, &InvalidTransitionError{From: s.Status, To: models.SubscriptionStatusCancelled, Reason: "subscription is no longer active"}
	}
	s.Status = models.SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.AutoRenew = false
	return []Effect{SubscriptionCancelled{SubscriptionID: s.ID, FleetID: s.FleetID}}, nil
}
