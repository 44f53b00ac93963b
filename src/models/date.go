package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date represents a calendar date in YYYY-MM-DD format
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date.
func Today() Date {
	return NewDate(time.Now())
}

func ParseDate(s string) (Date, error) {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD: %v", err)
	}
	return Date{parsed}, nil
}

// ToTime returns the underlying time.Time value
func (d Date) ToTime() time.Time {
	return d.Time
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// UnmarshalJSON implements json.Unmarshaler interface
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" {
		return nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	// Timestamps are accepted and truncated to their date.
	if len(str) > len(DateLayout) {
		if ts, err := time.Parse(time.RFC3339, str); err == nil {
			*d = NewDate(ts)
			return nil
		}
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler interface
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, d.Format(DateLayout))), nil
}

// DatePtr converts a nullable timestamp read from the database into a *Date.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}
