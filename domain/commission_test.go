package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommissionAmount(t *testing.T) {
	assert.InDelta(t, 6.00, CommissionAmount(60.00, 10.0), 0.001)
	assert.InDelta(t, 12.50, CommissionAmount(125.00, 10.0), 0.001)
	// rounding to 2dp
	assert.InDelta(t, 4.17, CommissionAmount(33.33, 12.5), 0.001)
	assert.InDelta(t, 0.00, CommissionAmount(0, 10.0), 0.001)
}

func TestAttributionValid(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	assert.True(t, AttributionValid(nil, now))
	assert.True(t, AttributionValid(&future, now))
	assert.False(t, AttributionValid(&past, now))
	// expiry boundary is exclusive
	assert.False(t, AttributionValid(&now, now))
}
