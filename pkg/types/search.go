package types

import (
	"fmt"
	"strings"
)

// SearchMode selects how query tokens must match an item.
type SearchMode int

// Search modes.
const (
	// ModeAny matches when at least one token occurs in title or author.
	ModeAny SearchMode = iota
	// ModeAll matches when every token occurs in title or author.
	ModeAll
	// ModePrefix matches when title or author starts with the whole query.
	ModePrefix
)

// String returns the mode's flag spelling.
func (m SearchMode) String() string {
	switch m {
	case ModeAny:
		return "any"
	case ModeAll:
		return "all"
	case ModePrefix:
		return "prefix"
	default:
		return fmt.Sprintf("SearchMode(%d)", int(m))
	}
}

// ParseSearchMode maps "any", "all" or "prefix" to a SearchMode. The empty
// string selects ModeAny.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return ModeAny, nil
	case "all":
		return ModeAll, nil
	case "prefix":
		return ModePrefix, nil
	default:
		return ModeAny, fmt.Errorf("%w: unknown search mode %q (valid: any, all, prefix)", ErrValidation, s)
	}
}
