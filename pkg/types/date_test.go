package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, time.March, 9, 23, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-09", Today(now).String())
}

func TestDateArithmetic(t *testing.T) {
	start := NewDate(2026, time.February, 27)

	tests := []struct {
		name string
		days int
		want string
	}{
		{"same day", 0, "2026-02-27"},
		{"crosses month end", 3, "2026-03-02"},
		{"backwards", -28, "2026-01-30"},
		{"crosses year end", 310, "2027-01-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := start.AddDays(tt.days)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.days, start.DaysUntil(got))
		})
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2026, time.May, 1)
	b := NewDate(2026, time.May, 2)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(NewDate(2026, time.May, 1)))
	assert.False(t, a.IsZero())
	assert.True(t, Date{}.IsZero())
	assert.Equal(t, "", Date{}.String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-10-13")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.October, 13), d)

	_, err = ParseDate("13/10/2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDateTextRoundTrip(t *testing.T) {
	d := NewDate(2024, time.February, 29)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", string(text))

	var back Date
	require.NoError(t, back.UnmarshalText(text))
	assert.True(t, back.Equal(d))

	var empty Date
	require.NoError(t, empty.UnmarshalText(nil))
	assert.True(t, empty.IsZero())
}
