package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStatusFollowsLoan(t *testing.T) {
	item := &Item{ID: 1, Title: "Dune", Author: "Frank Herbert"}
	assert.Equal(t, StatusAvailable, item.Status())
	assert.False(t, item.IsLent())

	item.Loan = &Loan{
		Borrower:     "Ali",
		CheckedOutOn: NewDate(2026, time.January, 1),
		DueOn:        NewDate(2026, time.January, 15),
	}
	assert.Equal(t, StatusLent, item.Status())
	assert.True(t, item.IsLent())
}

func TestItemCloneIsDeep(t *testing.T) {
	orig := &Item{
		ID:       7,
		Title:    "1984",
		Author:   "George Orwell",
		Loan:     &Loan{Borrower: "Zey", CheckedOutOn: NewDate(2026, 1, 1), DueOn: NewDate(2026, 1, 8)},
		Waitlist: []string{"A", "B"},
	}

	c := orig.Clone()
	c.Loan.Borrower = "Other"
	c.Waitlist[0] = "Z"

	assert.Equal(t, "Zey", orig.Loan.Borrower)
	assert.Equal(t, []string{"A", "B"}, orig.Waitlist)
}

func TestLoanValidate(t *testing.T) {
	day1 := NewDate(2026, time.June, 1)
	day5 := NewDate(2026, time.June, 5)

	tests := []struct {
		name    string
		loan    Loan
		wantErr bool
	}{
		{"valid", Loan{Borrower: "Ali", CheckedOutOn: day1, DueOn: day5}, false},
		{"same day due", Loan{Borrower: "Ali", CheckedOutOn: day1, DueOn: day1}, false},
		{"blank borrower", Loan{Borrower: "  ", CheckedOutOn: day1, DueOn: day5}, true},
		{"missing dates", Loan{Borrower: "Ali"}, true},
		{"due before checkout", Loan{Borrower: "Ali", CheckedOutOn: day5, DueOn: day1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loan.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Lent ")
	require.NoError(t, err)
	assert.Equal(t, StatusLent, s)

	_, err = ParseStatus("borrowed")
	assert.ErrorIs(t, err, ErrValidation)
}
