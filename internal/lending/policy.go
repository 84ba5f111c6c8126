// Package lending implements the item lifecycle: lending, renewal, return
// with overdue fees, and the per-item wait-list that is served on return.
//
// Every operation checks all of its preconditions before touching the item,
// so a failed call leaves the item exactly as it was.
package lending

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Policy holds the loan rules applied to one item at a time.
type Policy struct {
	// Clock returns the current time; Lend and Renew take today from it.
	Clock func() time.Time
	// DefaultLoanDays is the loan length used when a returned item is handed
	// to the next wait-list entrant.
	DefaultLoanDays int
	// MaxLoanDays caps the total loan length from checkout to due date
	// across renewals. Zero means no cap.
	MaxLoanDays int
}

// NewPolicy returns a policy with the given default loan length and renewal
// cap, reading today from the wall clock.
func NewPolicy(defaultLoanDays, maxLoanDays int) *Policy {
	return &Policy{
		Clock:           time.Now,
		DefaultLoanDays: defaultLoanDays,
		MaxLoanDays:     maxLoanDays,
	}
}

// Today returns the policy's current calendar date.
func (p *Policy) Today() types.Date {
	if p.Clock == nil {
		return types.Today(time.Now())
	}
	return types.Today(p.Clock())
}

// Lend lends an available item to borrower for days days starting today.
func (p *Policy) Lend(item *types.Item, borrower string, days int) error {
	return p.LendOn(item, borrower, days, p.Today())
}

// LendOn lends an available item to borrower for days days starting on
// from.
func (p *Policy) LendOn(item *types.Item, borrower string, days int, from types.Date) error {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return fmt.Errorf("%w: borrower must not be empty", types.ErrValidation)
	}
	if days < 1 {
		return fmt.Errorf("%w: loan days must be at least 1, got %d", types.ErrValidation, days)
	}
	if p.MaxLoanDays > 0 && days > p.MaxLoanDays {
		return fmt.Errorf("%w: loan of %d days exceeds the %d day limit", types.ErrValidation, days, p.MaxLoanDays)
	}
	if item.IsLent() {
		return fmt.Errorf("%w: item %d is already lent to %s", types.ErrInvalidOperation, item.ID, item.Loan.Borrower)
	}

	item.Loan = &types.Loan{
		Borrower:     borrower,
		CheckedOutOn: from,
		DueOn:        from.AddDays(days),
	}
	return nil
}

// Renew extends a lent item's due date by extraDays. Overdue items cannot
// be renewed; they must be returned.
func (p *Policy) Renew(item *types.Item, extraDays int) error {
	if extraDays < 1 {
		return fmt.Errorf("%w: renewal days must be at least 1, got %d", types.ErrValidation, extraDays)
	}
	if !item.IsLent() {
		return fmt.Errorf("%w: item %d is not lent", types.ErrInvalidOperation, item.ID)
	}
	today := p.Today()
	if p.IsOverdue(item, today) {
		return fmt.Errorf("%w: item %d is overdue since %s and must be returned",
			types.ErrInvalidOperation, item.ID, item.Loan.DueOn)
	}
	newDue := item.Loan.DueOn.AddDays(extraDays)
	if p.MaxLoanDays > 0 && item.Loan.CheckedOutOn.DaysUntil(newDue) > p.MaxLoanDays {
		return fmt.Errorf("%w: renewal would extend item %d past the %d day limit",
			types.ErrInvalidOperation, item.ID, p.MaxLoanDays)
	}

	item.Loan.DueOn = newDue
	return nil
}

// IsOverdue reports whether item is lent and today is after its due date.
func (p *Policy) IsOverdue(item *types.Item, today types.Date) bool {
	return item.IsLent() && today.After(item.Loan.DueOn)
}

// OverdueDays returns the whole days item is past due, or 0.
func (p *Policy) OverdueDays(item *types.Item, today types.Date) int {
	if !item.IsLent() {
		return 0
	}
	if late := item.Loan.DueOn.DaysUntil(today); late > 0 {
		return late
	}
	return 0
}

// Fee returns the overdue fee for item at dailyRate per day, rounded half
// up to two decimals.
func (p *Policy) Fee(item *types.Item, today types.Date, dailyRate float64) float64 {
	return feeFor(p.OverdueDays(item, today), dailyRate)
}

// Receipt describes a completed return.
type Receipt struct {
	ItemID   int
	Borrower string     // Who returned the item.
	DaysLate int        // Whole days past the due date.
	Fee      float64    // Charged overdue fee.
	RelentTo string     // Wait-list entrant the item was handed to, if any.
	NewDueOn types.Date // Due date of the hand-over loan.
}

// Relent reports whether the item went straight to a waiting borrower.
func (r Receipt) Relent() bool {
	return r.RelentTo != ""
}

// Return closes the item's loan as of today and charges dailyRate per day
// late. When the wait-list is non-empty the head entrant is dequeued and the
// item is lent to them for DefaultLoanDays as part of the same return.
func (p *Policy) Return(item *types.Item, today types.Date, dailyRate float64) (Receipt, error) {
	if dailyRate < 0 {
		return Receipt{}, fmt.Errorf("%w: daily rate must not be negative", types.ErrValidation)
	}
	if !item.IsLent() {
		return Receipt{}, fmt.Errorf("%w: item %d is not lent", types.ErrInvalidOperation, item.ID)
	}
	if len(item.Waitlist) > 0 && p.DefaultLoanDays < 1 {
		return Receipt{}, fmt.Errorf("%w: default loan days must be at least 1", types.ErrValidation)
	}

	late := p.OverdueDays(item, today)
	r := Receipt{
		ItemID:   item.ID,
		Borrower: item.Loan.Borrower,
		DaysLate: late,
		Fee:      feeFor(late, dailyRate),
	}
	item.Loan = nil

	if next, ok := DequeueNext(item); ok {
		item.Loan = &types.Loan{
			Borrower:     next,
			CheckedOutOn: today,
			DueOn:        today.AddDays(p.DefaultLoanDays),
		}
		r.RelentTo = next
		r.NewDueOn = item.Loan.DueOn
	}
	return r, nil
}

// feeFor multiplies days by rate and rounds half up to cents.
func feeFor(days int, rate float64) float64 {
	if days <= 0 || rate <= 0 {
		return 0
	}
	return roundCents(float64(days) * rate)
}

// roundCents rounds a non-negative amount half up to two decimals. The
// 1e-9 nudge absorbs binary representation error such as 2.675*100.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5+1e-9) / 100
}
