package utils

import (
	"strings"
	"time"
)

// TimeOfDay buckets an instant into breakfast, lunch, dinner or late_night
// using server-local time.
func TimeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour < 11:
		return "breakfast"
	case hour < 15:
		return "lunch"
	case hour < 22:
		return "dinner"
	default:
		return "late_night"
	}
}

// DayOfWeek returns the lowercase weekday name for an instant.
func DayOfWeek(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// PatternKey builds the bucket identifier used by pattern mining.
func PatternKey(dayOfWeek, timeOfDay string) string {
	return dayOfWeek + "_" + timeOfDay
}
