package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefundTerminal(t *testing.T) {
	assert.False(t, (&RefundRecord{Status: RefundStatusPending}).RefundTerminal())

	assert.True(t, (&RefundRecord{Status: RefundStatusSucceeded}).RefundTerminal())
	assert.True(t, (&RefundRecord{Status: RefundStatusFailed}).RefundTerminal())

	// a disputed record is only ever moved by admin resolution; a replayed
	// refund-outcome webhook must leave it alone
	assert.True(t, (&RefundRecord{Status: RefundStatusDisputed}).RefundTerminal())
}
