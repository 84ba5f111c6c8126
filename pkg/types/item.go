package types

import (
	"fmt"
	"strings"
	"time"
)

// Status is the availability of an item.
type Status string

// Item statuses.
const (
	StatusAvailable Status = "available"
	StatusLent      Status = "lent"
)

// ParseStatus maps a status string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusLent:
		return StatusLent, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
}

// Loan is the lend state of an item. An item carries a Loan exactly when it
// is lent, so borrower and dates are always present or absent together.
type Loan struct {
	Borrower     string // Who holds the item.
	CheckedOutOn Date   // Day the loan started.
	DueOn        Date   // Last day before the loan is overdue.
}

// Validate checks the loan's own invariants.
func (l Loan) Validate() error {
	if strings.TrimSpace(l.Borrower) == "" {
		return fmt.Errorf("%w: loan borrower is empty", ErrValidation)
	}
	if l.CheckedOutOn.IsZero() || l.DueOn.IsZero() {
		return fmt.Errorf("%w: loan dates are missing", ErrValidation)
	}
	if l.DueOn.Before(l.CheckedOutOn) {
		return fmt.Errorf("%w: due date %s precedes checkout %s", ErrValidation, l.DueOn, l.CheckedOutOn)
	}
	return nil
}

// Item is a lendable catalog entry.
type Item struct {
	ID        int       // Positive, unique, assigned by the catalog.
	Title     string    // Title Case.
	Author    string    // Title Case.
	Loan      *Loan     // Nil while available.
	Waitlist  []string  // Borrowers waiting for the item, head first.
	CreatedAt time.Time // When the item was added.
}

// Status reports whether the item is available or lent.
func (i *Item) Status() Status {
	if i.Loan != nil {
		return StatusLent
	}
	return StatusAvailable
}

// IsLent reports whether the item is currently lent.
func (i *Item) IsLent() bool {
	return i.Loan != nil
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() Item {
	c := *i
	if i.Loan != nil {
		loan := *i.Loan
		c.Loan = &loan
	}
	if i.Waitlist != nil {
		c.Waitlist = append([]string(nil), i.Waitlist...)
	}
	return c
}
