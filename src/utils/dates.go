package utils

import (
	"fmt"
	"time"
)

// MonthBounds returns the first and last calendar day of the month containing t, in UTC.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// ParseDateParam parses an optional YYYY-MM-DD query parameter, defaulting to fallback.
func ParseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(ShortDashDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return parsed, nil
}
