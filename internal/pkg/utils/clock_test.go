package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "8", "25:00", "08:60", "08.30", "8:30pm"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestAtClock_UsesLocalCalendarDate(t *testing.T) {
	// 2025-04-14 23:30 UTC is already 2025-04-15 06:30 in WIB.
	utc := time.Date(2025, 4, 14, 23, 30, 0, 0, time.UTC)

	got, err := AtClock(utc, "11:00", wib)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 15, 11, 0, 0, 0, wib), got)
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2025, 4, 15, 17, 45, 12, 99, wib)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, wib), StartOfDay(now, wib))
}

func TestIsWeekend(t *testing.T) {
	cases := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2025, 4, 12, 10, 0, 0, 0, wib), true},  // Saturday
		{time.Date(2025, 4, 13, 10, 0, 0, 0, wib), true},  // Sunday
		{time.Date(2025, 4, 14, 10, 0, 0, 0, wib), false}, // Monday
		{time.Date(2025, 4, 18, 23, 0, 0, 0, wib), false}, // Friday
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsWeekend(tc.day, wib), tc.day.String())
	}

	// Friday 20:00 UTC is Saturday 03:00 in WIB.
	assert.True(t, IsWeekend(time.Date(2025, 4, 18, 20, 0, 0, 0, time.UTC), wib))
}
