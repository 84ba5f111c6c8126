package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func seedItems() []types.Item {
	return []types.Item{
		{ID: 1, Title: "Dune", Author: "Frank Herbert"},
		{ID: 2, Title: "Kürk Mantolu Madonna", Author: "Sabahattin Ali"},
		{
			ID: 3, Title: "1984", Author: "George Orwell",
			Loan: &types.Loan{Borrower: "Zey", CheckedOutOn: types.NewDate(2026, time.October, 1), DueOn: types.NewDate(2026, time.October, 15)},
		},
		{ID: 4, Title: "Dune Messiah", Author: "Frank Herbert"},
	}
}

func ids(items []types.Item) []int {
	out := []int{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	items := seedItems()
	for _, q := range []string{"", "   ", "\t\n"} {
		for _, mode := range []types.SearchMode{types.ModeAny, types.ModeAll, types.ModePrefix} {
			assert.Empty(t, Search(items, q, mode), "query %q mode %s", q, mode)
		}
	}
}

func TestSearchIsCaseAndDiacriticInsensitive(t *testing.T) {
	items := seedItems()

	want := Search(items, "dune", types.ModeAny)
	assert.Equal(t, []int{1, 4}, ids(want))
	assert.Equal(t, want, Search(items, "DUNE", types.ModeAny))
	assert.Equal(t, want, Search(items, "dÜnE", types.ModeAny))
}

func TestSearchModes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		mode  types.SearchMode
		want  []int
	}{
		{"any matches one token", "orwell tolstoy", types.ModeAny, []int{3}},
		{"any across title and author", "herbert madonna", types.ModeAny, []int{1, 2, 4}},
		{"all needs every token", "george 1984", types.ModeAll, []int{3}},
		{"all fails on a missing token", "george tolstoy", types.ModeAll, []int{}},
		{"all spans title and author", "dune frank", types.ModeAll, []int{1, 4}},
		{"substring inside a word", "mant", types.ModeAny, []int{2}},
		{"prefix on title", "kürk man", types.ModePrefix, []int{2}},
		{"prefix on author", "sabahattin", types.ModePrefix, []int{2}},
		{"prefix without diacritics", "KURK MANTOLU", types.ModePrefix, []int{2}},
		{"prefix is not substring", "mantolu", types.ModePrefix, []int{}},
		{"prefix uses whole query", "dune mess", types.ModePrefix, []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(seedItems(), tt.query, tt.mode)))
		})
	}
}

func TestSearchAvailabilityFilter(t *testing.T) {
	items := seedItems()

	avail := SearchWith(items, "e", Options{Mode: types.ModeAny, Availability: AvailableOnly})
	assert.Equal(t, []int{1, 4}, ids(avail))

	lent := SearchWith(items, "e", Options{Mode: types.ModeAny, Availability: LentOnly})
	assert.Equal(t, []int{3}, ids(lent))
}

func TestSearchReturnsCopies(t *testing.T) {
	items := seedItems()
	res := Search(items, "1984", types.ModeAny)
	res[0].Loan.Borrower = "changed"
	assert.Equal(t, "Zey", items[2].Loan.Borrower)
}

func TestRegex(t *testing.T) {
	items := seedItems()
	tests := []struct {
		name    string
		pattern string
		avail   Availability
		want    []int
	}{
		{"anchored title", "^d.ne", AnyStatus, []int{1, 4}},
		{"alternation with accents", "KÜRK|orwell", AnyStatus, []int{2, 3}},
		{"end of author", "herbert$", AnyStatus, []int{1, 4}},
		{"digits class", `^\d{4} `, AnyStatus, []int{3}},
		{"available only", "kurk|orwell", AvailableOnly, []int{2}},
		{"no match", "^zzz", AnyStatus, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Regex(items, tt.pattern, tt.avail)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRegexEdgeCases(t *testing.T) {
	got, err := Regex(seedItems(), "   ", AnyStatus)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Regex(seedItems(), "dune(", AnyStatus)
	assert.ErrorIs(t, err, types.ErrValidation)
}
