package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
}

func TestDayUsesShopZone(t *testing.T) {
	// 01:30 UTC is still the previous evening in São Paulo.
	now := time.Date(2025, 6, 2, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-01", Day(DefaultTimezone, now))
	assert.Equal(t, "2025-06-02", Day("UTC", now))
}
