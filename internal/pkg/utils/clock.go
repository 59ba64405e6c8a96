package utils

import (
	"fmt"
	"time"
)

// ClockLayout is the wall-clock format used by settings and schedule windows.
const ClockLayout = "15:04"

// DateLayout is the calendar date format used across the API.
const DateLayout = "2006-01-02"

// ParseClock parses an "HH:MM" value into hour and minute.
func ParseClock(value string) (hour int, minute int, err error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

// AtClock returns the instant on day's calendar date at the given "HH:MM" in loc.
func AtClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc), nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// IsWeekend reports whether t falls on Saturday or Sunday in loc.
func IsWeekend(t time.Time, loc *time.Location) bool {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
