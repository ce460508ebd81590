package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomerAccessIsActive(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -1)

	active := &CustomerAccess{Status: AccessStatusActive, ExpiresAt: &future}
	assert.True(t, active.IsActive(now))
	assert.True(t, active.IsActive(future), "expiry day itself still counts")

	expired := &CustomerAccess{Status: AccessStatusActive, ExpiresAt: &past}
	assert.False(t, expired.IsActive(now))

	delinquent := &CustomerAccess{Status: AccessStatusDelinquent, ExpiresAt: &future}
	assert.False(t, delinquent.IsActive(now))

	noExpiry := &CustomerAccess{Status: AccessStatusActive}
	assert.False(t, noExpiry.IsActive(now))
}
