// Package store persists a catalog as a single JSON document and moves
// items in and out of CSV files. Saves are atomic; loads either produce a
// complete catalog or fail without side effects.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// DocumentVersion is written to every saved document.
const DocumentVersion = "1"

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// document is the on-disk layout.
type document struct {
	Version    any           `json:"version"`
	SavedAt    string        `json:"saved_at"`
	TotalBooks int           `json:"total_books"`
	Books      *[]bookRecord `json:"books"`
}

// bookRecord is one item in the document. Lend fields are null while the
// item is available.
type bookRecord struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Status       string   `json:"status"`
	Borrower     *string  `json:"borrower"`
	CheckedOutOn *string  `json:"checked_out_on"`
	DueOn        *string  `json:"due_on"`
	Waitlist     []string `json:"waitlist"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// Store reads and writes the catalog document at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a Store for the document at path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document into a new catalog. A missing file yields an
// empty catalog. Malformed content returns ErrCorruptStore and other read
// failures return ErrIO; in both cases no catalog is returned.
func (s *Store) Load(opts ...catalog.Option) (*catalog.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.New(opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrIO, s.path, err)
	}

	records, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrCorruptStore, s.path, err)
	}

	items := make([]types.Item, 0, len(records))
	for _, rec := range records {
		it, err := rec.toItem()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrCorruptStore, s.path, err)
		}
		items = append(items, it)
	}

	c, err := catalog.Restore(items, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrCorruptStore, s.path, err)
	}
	return c, nil
}

// Save writes every item of c to the document atomically.
func (s *Store) Save(c *catalog.Catalog) error {
	items := c.ListAll()
	records := make([]bookRecord, 0, len(items))
	for i := range items {
		records = append(records, fromItem(&items[i]))
	}
	doc := document{
		Version:    DocumentVersion,
		SavedAt:    s.now().Format(time.RFC3339),
		TotalBooks: len(records),
		Books:      &records,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	data = append(data, '\n')

	return writeAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// decode accepts the versioned document or a bare array of book records.
func decode(data []byte) ([]bookRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("document is empty")
	}
	if trimmed[0] == '[' {
		var records []bookRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Books == nil {
		return nil, errors.New(`missing "books" array`)
	}
	if doc.TotalBooks != len(*doc.Books) {
		return nil, fmt.Errorf("total_books is %d but %d books are listed", doc.TotalBooks, len(*doc.Books))
	}
	return *doc.Books, nil
}

func fromItem(it *types.Item) bookRecord {
	rec := bookRecord{
		ID:       it.ID,
		Title:    it.Title,
		Author:   it.Author,
		Status:   string(it.Status()),
		Waitlist: it.Waitlist,
	}
	if rec.Waitlist == nil {
		rec.Waitlist = []string{}
	}
	if !it.CreatedAt.IsZero() {
		rec.CreatedAt = it.CreatedAt.Format(time.RFC3339Nano)
	}
	if it.Loan != nil {
		borrower := it.Loan.Borrower
		out := it.Loan.CheckedOutOn.String()
		due := it.Loan.DueOn.String()
		rec.Borrower, rec.CheckedOutOn, rec.DueOn = &borrower, &out, &due
	}
	return rec
}

func (rec bookRecord) toItem() (types.Item, error) {
	it := types.Item{
		ID:     rec.ID,
		Title:  rec.Title,
		Author: rec.Author,
	}
	if len(rec.Waitlist) > 0 {
		it.Waitlist = append([]string(nil), rec.Waitlist...)
	}
	if rec.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return types.Item{}, fmt.Errorf("book %d: created_at: %w", rec.ID, err)
		}
		it.CreatedAt = created
	}

	status, err := types.ParseStatus(rec.Status)
	if err != nil {
		return types.Item{}, fmt.Errorf("book %d: %w", rec.ID, err)
	}

	present := 0
	for _, f := range []*string{rec.Borrower, rec.CheckedOutOn, rec.DueOn} {
		if f != nil && *f != "" {
			present++
		}
	}

	switch status {
	case types.StatusAvailable:
		if present != 0 {
			return types.Item{}, fmt.Errorf("book %d is available but carries lend fields", rec.ID)
		}
		if len(rec.Waitlist) > 0 {
			return types.Item{}, fmt.Errorf("book %d is available but has a wait-list", rec.ID)
		}
	case types.StatusLent:
		if present != 3 {
			return types.Item{}, fmt.Errorf("book %d is lent but lend fields are incomplete", rec.ID)
		}
		out, err := types.ParseDate(*rec.CheckedOutOn)
		if err != nil {
			return types.Item{}, fmt.Errorf("book %d: checked_out_on: %w", rec.ID, err)
		}
		due, err := types.ParseDate(*rec.DueOn)
		if err != nil {
			return types.Item{}, fmt.Errorf("book %d: due_on: %w", rec.ID, err)
		}
		it.Loan = &types.Loan{Borrower: *rec.Borrower, CheckedOutOn: out, DueOn: due}
	}
	return it, nil
}
