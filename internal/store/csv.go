package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// csvHeader is the column layout written by ExportCSV.
var csvHeader = []string{
	"id", "title", "author", "status", "borrower", "checked_out_on", "due_on", "waitlist_count",
}

// ImportResult counts what an import did with each row.
type ImportResult struct {
	Added      int // Rows turned into new items.
	Duplicates int // Rows matching an existing item's normalized title and author.
	Invalid    int // Rows without a usable title or author.
}

// ImportCSV adds a catalog item for every title/author row read from r.
// A header row naming "title" and "author" selects those columns; otherwise
// the first two columns are used. The whole input is parsed before the
// catalog is touched, so malformed CSV adds nothing.
func ImportCSV(c *catalog.Catalog, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return res, fmt.Errorf("%w: reading csv: %v", types.ErrValidation, err)
	}
	if len(rows) == 0 {
		return res, nil
	}

	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	titleCol, authorCol := 0, 1
	if t, a, ok := headerColumns(rows[0]); ok {
		titleCol, authorCol = t, a
		rows = rows[1:]
	}

	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		if len(row) <= titleCol || len(row) <= authorCol {
			res.Invalid++
			continue
		}
		_, err := c.Add(row[titleCol], row[authorCol])
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, types.ErrDuplicate):
			res.Duplicates++
		case errors.Is(err, types.ErrValidation):
			res.Invalid++
		default:
			return res, err
		}
	}
	return res, nil
}

// ImportCSVFile opens path and imports it with ImportCSV.
func ImportCSVFile(c *catalog.Catalog, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}
	defer f.Close()
	return ImportCSV(c, f)
}

// ExportCSV writes one row per item, in the given order, after a header.
func ExportCSV(w io.Writer, items []types.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range items {
		it := &items[i]
		var borrower, out, due string
		if it.Loan != nil {
			borrower = it.Loan.Borrower
			out = it.Loan.CheckedOutOn.String()
			due = it.Loan.DueOn.String()
		}
		row := []string{
			strconv.Itoa(it.ID),
			it.Title,
			it.Author,
			string(it.Status()),
			borrower,
			out,
			due,
			strconv.Itoa(len(it.Waitlist)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes items to path atomically.
func ExportCSVFile(path string, items []types.Item) error {
	return writeAtomic(path, func(w io.Writer) error {
		return ExportCSV(w, items)
	})
}

// headerColumns finds the title and author columns in a header row.
func headerColumns(row []string) (int, int, bool) {
	title, author := -1, -1
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "title":
			title = i
		case "author":
			author = i
		}
	}
	return title, author, title >= 0 && author >= 0
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
