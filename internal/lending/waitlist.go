package lending

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/shelf/internal/textnorm"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Join queues borrower for a lent item and returns their 1-based position.
// Joining twice is a no-op that reports the existing position. Waiting only
// makes sense while the item is out, so joining an available item, or the
// one you already hold, is an invalid operation.
func Join(item *types.Item, borrower string) (int, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return 0, fmt.Errorf("%w: borrower must not be empty", types.ErrValidation)
	}
	if !item.IsLent() {
		return 0, fmt.Errorf("%w: item %d is available; lend it instead of waiting", types.ErrInvalidOperation, item.ID)
	}
	if textnorm.Equal(item.Loan.Borrower, borrower) {
		return 0, fmt.Errorf("%w: %s already holds item %d", types.ErrInvalidOperation, borrower, item.ID)
	}
	if pos := Position(item, borrower); pos > 0 {
		return pos, nil
	}

	item.Waitlist = append(item.Waitlist, borrower)
	return len(item.Waitlist), nil
}

// Position returns borrower's 1-based place in the wait-list, or 0.
func Position(item *types.Item, borrower string) int {
	key := textnorm.Key(borrower)
	for i, name := range item.Waitlist {
		if textnorm.Key(name) == key {
			return i + 1
		}
	}
	return 0
}

// Leave removes borrower from the wait-list and reports whether they were
// queued.
func Leave(item *types.Item, borrower string) bool {
	pos := Position(item, borrower)
	if pos == 0 {
		return false
	}
	item.Waitlist = append(item.Waitlist[:pos-1], item.Waitlist[pos:]...)
	if len(item.Waitlist) == 0 {
		item.Waitlist = nil
	}
	return true
}

// DequeueNext removes and returns the head of the wait-list.
func DequeueNext(item *types.Item) (string, bool) {
	if len(item.Waitlist) == 0 {
		return "", false
	}
	next := item.Waitlist[0]
	item.Waitlist = item.Waitlist[1:]
	if len(item.Waitlist) == 0 {
		item.Waitlist = nil
	}
	return next, true
}
