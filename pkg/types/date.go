package types

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Date is a calendar date without a time of day. The zero Date is unset.
type Date struct {
	t time.Time // midnight UTC
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, dom int) Date {
	return Date{t: time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrValidation, s, err)
	}
	return Date{t: t}, nil
}

// AddDays returns d shifted by n days; n may be negative.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other. The result is
// negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t) / day)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same date.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// IsZero reports whether d is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String formats d as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero Date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
