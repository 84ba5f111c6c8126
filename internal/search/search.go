// Package search matches catalog items against free-text queries using the
// normalized title and author keys from textnorm.
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/shelf/internal/textnorm"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Availability narrows results by item status.
type Availability int

// Availability filters.
const (
	AnyStatus Availability = iota
	AvailableOnly
	LentOnly
)

// Options controls a search.
type Options struct {
	Mode         types.SearchMode
	Availability Availability
}

// Search returns the items matching query under mode, in input order.
func Search(items []types.Item, query string, mode types.SearchMode) []types.Item {
	return SearchWith(items, query, Options{Mode: mode})
}

// SearchWith is Search with an availability filter. An empty or
// whitespace-only query matches nothing.
func SearchWith(items []types.Item, query string, opts Options) []types.Item {
	q := newQuery(query, opts.Mode)
	if q.empty() {
		return nil
	}
	var out []types.Item
	for i := range items {
		it := &items[i]
		if !opts.Availability.admits(it) {
			continue
		}
		if q.matches(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Regex returns the items whose normalized "title author" text matches
// pattern, in input order. The pattern is normalized like a query, so
// matching ignores case and accents; upper-case escapes such as \D fold to
// their lower-case forms. An empty pattern matches nothing and an invalid
// one fails with ErrValidation.
func Regex(items []types.Item, pattern string, availability Availability) ([]types.Item, error) {
	key := textnorm.Key(pattern)
	if key == "" {
		return nil, nil
	}
	re, err := regexp.Compile(key)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", types.ErrValidation, pattern, err)
	}
	var out []types.Item
	for i := range items {
		it := &items[i]
		if !availability.admits(it) {
			continue
		}
		if re.MatchString(textnorm.Key(it.Title) + " " + textnorm.Key(it.Author)) {
			out = append(out, it.Clone())
		}
	}
	return out, nil
}

type query struct {
	key    string
	tokens []string
	mode   types.SearchMode
}

func newQuery(raw string, mode types.SearchMode) query {
	key := textnorm.Key(raw)
	return query{key: key, tokens: strings.Fields(key), mode: mode}
}

func (q query) empty() bool {
	return len(q.tokens) == 0
}

func (q query) matches(it *types.Item) bool {
	title := textnorm.Key(it.Title)
	author := textnorm.Key(it.Author)
	candidate := title + " " + author

	switch q.mode {
	case types.ModeAll:
		for _, tok := range q.tokens {
			if !strings.Contains(candidate, tok) {
				return false
			}
		}
		return true
	case types.ModePrefix:
		return strings.HasPrefix(title, q.key) || strings.HasPrefix(author, q.key)
	default:
		for _, tok := range q.tokens {
			if strings.Contains(candidate, tok) {
				return true
			}
		}
		return false
	}
}

func (a Availability) admits(it *types.Item) bool {
	switch a {
	case AvailableOnly:
		return !it.IsLent()
	case LentOnly:
		return it.IsLent()
	default:
		return true
	}
}
