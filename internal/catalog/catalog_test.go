package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

var fixedNow = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

func newTestCatalog() *Catalog {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	c := newTestCatalog()

	first, err := c.Add("Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, types.StatusAvailable, first.Status())
	assert.Equal(t, fixedNow, first.CreatedAt)

	second, err := c.Add("1984", "George Orwell")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestAddUsesMaxExistingIDPlusOne(t *testing.T) {
	c, err := Restore([]types.Item{
		{ID: 4, Title: "A", Author: "X"},
		{ID: 9, Title: "B", Author: "Y"},
		{ID: 2, Title: "C", Author: "Z"},
	})
	require.NoError(t, err)

	it, err := c.Add("New Book", "Someone")
	require.NoError(t, err)
	assert.Equal(t, 10, it.ID)
}

func TestAddAppliesTitleCase(t *testing.T) {
	c := newTestCatalog()

	it, err := c.Add("  zeynep ve inci ", "zeynep inan")
	require.NoError(t, err)
	assert.Equal(t, "Zeynep Ve İnci", it.Title)
	assert.Equal(t, "Zeynep İnan", it.Author)
}

func TestAddRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name, title, author string
	}{
		{"empty title", "", "Author"},
		{"blank title", "   ", "Author"},
		{"empty author", "Title", ""},
		{"blank author", "Title", "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog()
			_, err := c.Add(tt.title, tt.author)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestAddDetectsNormalizedDuplicate(t *testing.T) {
	c := newTestCatalog()
	_, err := c.Add("Zeynep ve İnci", "Zeynep İnan")
	require.NoError(t, err)

	_, err = c.Add("ZEYNEP VE INCI", "zeynep  inan")
	assert.ErrorIs(t, err, types.ErrDuplicate)
	assert.Equal(t, 1, c.Len(), "duplicate add must not mutate the catalog")

	// Same title, different author is not a duplicate.
	_, err = c.Add("Zeynep ve İnci", "Another Author")
	assert.NoError(t, err)
}

func TestFind(t *testing.T) {
	c := newTestCatalog()
	added, err := c.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	got, err := c.Find(added.ID)
	require.NoError(t, err)
	assert.Same(t, added, got)

	_, err = c.Find(42)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = c.Find(0)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListAllAndAvailableKeepOrder(t *testing.T) {
	c := newTestCatalog()
	for _, title := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := c.Add(title, "Writer")
		require.NoError(t, err)
	}
	lent, err := c.Find(2)
	require.NoError(t, err)
	lent.Loan = &types.Loan{Borrower: "Ali", CheckedOutOn: types.NewDate(2026, 1, 1), DueOn: types.NewDate(2026, 1, 2)}

	all := c.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, titles(all))

	avail := c.ListAvailable()
	assert.Equal(t, []string{"Charlie", "Bravo"}, titles(avail))

	assert.Equal(t, Counts{Total: 3, Available: 2, Lent: 1}, c.Counts())
}

func TestListAllReturnsCopies(t *testing.T) {
	c := newTestCatalog()
	_, err := c.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	snapshot := c.ListAll()
	snapshot[0].Title = "Changed"

	live, err := c.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", live.Title)
}

func TestRestoreRejectsBrokenItems(t *testing.T) {
	good := types.Loan{Borrower: "Ali", CheckedOutOn: types.NewDate(2026, 1, 1), DueOn: types.NewDate(2026, 1, 5)}
	bad := types.Loan{Borrower: "Ali", CheckedOutOn: types.NewDate(2026, 1, 5), DueOn: types.NewDate(2026, 1, 1)}

	tests := []struct {
		name  string
		items []types.Item
		ok    bool
	}{
		{"valid", []types.Item{{ID: 1, Title: "A", Author: "B", Loan: &good}}, true},
		{"zero id", []types.Item{{ID: 0, Title: "A", Author: "B"}}, false},
		{"repeated id", []types.Item{{ID: 1, Title: "A", Author: "B"}, {ID: 1, Title: "C", Author: "D"}}, false},
		{"blank title", []types.Item{{ID: 1, Title: "", Author: "B"}}, false},
		{"due before checkout", []types.Item{{ID: 1, Title: "A", Author: "B", Loan: &bad}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Restore(tt.items)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, len(tt.items), c.Len())
				return
			}
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func titles(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}
