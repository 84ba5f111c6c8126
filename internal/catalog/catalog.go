// Package catalog holds the in-memory collection of lendable items. It owns
// id assignment, Title Case display forms, and duplicate detection.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/shelf/internal/textnorm"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Catalog is an ordered collection of items. Items keep their insertion
// order; ids are assigned as max(existing)+1 and never reused.
type Catalog struct {
	items []*types.Item
	byID  map[int]*types.Item
	now   func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		byID: make(map[int]*types.Item),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore builds a catalog from previously persisted items, keeping their
// order and ids. It rejects non-positive or repeated ids, blank titles or
// authors, and inconsistent loans with ErrValidation.
func Restore(items []types.Item, opts ...Option) (*Catalog, error) {
	c := New(opts...)
	for i := range items {
		it := items[i].Clone()
		if it.ID <= 0 {
			return nil, fmt.Errorf("%w: item id %d is not positive", types.ErrValidation, it.ID)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: item id %d appears twice", types.ErrValidation, it.ID)
		}
		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Author) == "" {
			return nil, fmt.Errorf("%w: item %d has an empty title or author", types.ErrValidation, it.ID)
		}
		if it.Loan != nil {
			if err := it.Loan.Validate(); err != nil {
				return nil, fmt.Errorf("item %d: %w", it.ID, err)
			}
		}
		c.items = append(c.items, &it)
		c.byID[it.ID] = &it
	}
	return c, nil
}

// Add creates an available item. Title and author are trimmed and converted
// to Title Case. It returns ErrValidation when either is blank and
// ErrDuplicate, leaving the catalog unchanged, when an item with the same
// normalized title and author exists.
func (c *Catalog) Add(title, author string) (*types.Item, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author must not be empty", types.ErrValidation)
	}

	title = textnorm.TitleCase(title)
	author = textnorm.TitleCase(author)

	if existing := c.FindDuplicate(title, author); existing != nil {
		return nil, fmt.Errorf("%w: %q by %s already exists as id %d",
			types.ErrDuplicate, existing.Title, existing.Author, existing.ID)
	}

	item := &types.Item{
		ID:        c.nextID(),
		Title:     title,
		Author:    author,
		CreatedAt: c.now(),
	}
	c.items = append(c.items, item)
	c.byID[item.ID] = item
	return item, nil
}

// FindDuplicate returns the first item whose normalized title and author
// equal the given ones, or nil.
func (c *Catalog) FindDuplicate(title, author string) *types.Item {
	tk, ak := textnorm.Key(title), textnorm.Key(author)
	for _, it := range c.items {
		if textnorm.Key(it.Title) == tk && textnorm.Key(it.Author) == ak {
			return it
		}
	}
	return nil
}

// Find returns the live item with the given id, or ErrNotFound.
// Mutations through the returned pointer are visible to the catalog.
func (c *Catalog) Find(id int) (*types.Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", types.ErrNotFound, id)
	}
	return it, nil
}

// ListAll returns copies of every item in insertion order.
func (c *Catalog) ListAll() []types.Item {
	out := make([]types.Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.Clone())
	}
	return out
}

// ListAvailable returns copies of the available items in insertion order.
func (c *Catalog) ListAvailable() []types.Item {
	var out []types.Item
	for _, it := range c.items {
		if !it.IsLent() {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Counts summarizes the catalog by status.
type Counts struct {
	Total     int
	Available int
	Lent      int
}

// Counts returns the number of items per status.
func (c *Catalog) Counts() Counts {
	var n Counts
	for _, it := range c.items {
		n.Total++
		if it.IsLent() {
			n.Lent++
		} else {
			n.Available++
		}
	}
	return n
}

func (c *Catalog) nextID() int {
	maxID := 0
	for _, it := range c.items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID + 1
}
