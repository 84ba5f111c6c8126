package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// writeTable prints items as aligned columns.
func writeTable(w io.Writer, items []types.Item, mark func(string) string) {
	if mark == nil {
		mark = func(s string) string { return s }
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tSTATUS\tBORROWER\tDUE\tWAITING")
	for _, it := range items {
		borrower, due := "-", "-"
		if it.Loan != nil {
			borrower, due = it.Loan.Borrower, it.Loan.DueOn.String()
		}
		waiting := "-"
		if len(it.Waitlist) > 0 {
			waiting = strings.Join(it.Waitlist, ", ")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, mark(it.Title), mark(it.Author), it.Status(), borrower, due, waiting)
	}
	tw.Flush()
}
