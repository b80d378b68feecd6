package domain

import (
	"math"
	"time"
)

// CommissionAmount computes a partner's share of a completed booking,
// rounded to 2 decimal places. Rate is a percentage (e.g. 10.0 for 10%).
func CommissionAmount(gross, rate float64) float64 {
	return math.Round(gross*rate) / 100
}

// AttributionValid reports whether a referral attribution still counts at
// the given instant. A nil expiry never lapses.
func AttributionValid(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return true
	}
	return now.Before(*expiresAt)
}
