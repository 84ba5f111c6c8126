// History command for the shelf CLI.
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [id]",
		Short: "Show the activity journal",
		Long: `History lists the journaled activity of one book, or of the whole
catalog together with the fees collected so far.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := 0
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			return a.withLibrary(func(s *session) error {
				events, err := s.History(id)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(events)
				}
				if len(events) == 0 {
					fmt.Fprintln(a.out, "No activity.")
					return nil
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tEVENT\tID\tBORROWER\tDAYS\tFEE\tDETAIL")
				for _, e := range events {
					fee := "-"
					if e.Fee > 0 {
						fee = formatMoney(e.Fee)
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
						e.At.Local().Format(time.DateTime), e.Kind, e.ItemID, e.Borrower, e.Days, fee, e.Detail)
				}
				tw.Flush()
				if id == 0 {
					total, err := s.FeesCollected()
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Fees collected: %s\n", formatMoney(total))
				}
				return nil
			})
		},
	}
}
