// Overdue command for the shelf CLI.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/lending"
)

func newOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue books and their fees",
		Long: `Overdue lists every lent book past its due date with the fee owed as of
today. Fees are computed on demand from daily_rate (or --rate).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				report, err := s.ListOverdue()
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(overdueView(report))
				}
				if len(report.Entries) == 0 {
					fmt.Fprintln(a.out, "No overdue books.")
					return nil
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tBORROWER\tDUE\tDAYS\tFEE")
				for _, e := range report.Entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
						e.Item.ID, e.Item.Title, e.Item.Loan.Borrower, e.Item.Loan.DueOn, e.Days, formatMoney(e.Fee))
				}
				tw.Flush()
				fmt.Fprintf(a.out, "Total: %s (%s per day, as of %s)\n",
					formatMoney(report.TotalFee), formatMoney(report.DailyRate), report.Today)
				return nil
			})
		},
	}
}

func overdueView(r lending.OverdueReport) map[string]any {
	entries := make([]map[string]any, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, map[string]any{
			"item": viewOf(e.Item),
			"days": e.Days,
			"fee":  e.Fee,
		})
	}
	return map[string]any{
		"today":      r.Today.String(),
		"daily_rate": r.DailyRate,
		"entries":    entries,
		"total_fee":  r.TotalFee,
	}
}
