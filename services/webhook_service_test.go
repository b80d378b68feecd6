package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/valetly/valetly_backend/domain"
)

func TestAsDuplicateEventMapsUniqueViolation(t *testing.T) {
	// the loser of two concurrent deliveries of one intent hits the unique
	// index on create; that must read as a replay, not a failure
	err := asDuplicateEvent(gorm.ErrDuplicatedKey)
	assert.True(t, errors.Is(err, domain.ErrDuplicateEvent))

	wrapped := asDuplicateEvent(gorm.ErrRecordNotFound)
	assert.True(t, errors.Is(wrapped, gorm.ErrRecordNotFound))

	assert.NoError(t, asDuplicateEvent(nil))
}
