// Lend, renew and return commands for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLendCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "lend <id> <borrower>",
		Short: "Lend a book",
		Long: `Lend marks an available book as lent to borrower, due after --days days
(default_loan_days when omitted).

Example:
  shelf lend 2 "Ayşe Yılmaz" --days 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withLibrary(func(s *session) error {
				if !cmd.Flags().Changed("days") {
					days = s.DefaultLoanDays()
				}
				it, err := s.Lend(id, args[1], days)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(viewOf(it))
				}
				fmt.Fprintf(a.out, "Lent #%d %s to %s, due %s\n", it.ID, it.Title, it.Loan.Borrower, it.Loan.DueOn)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "loan length in days (default: default_loan_days)")
	return cmd
}

func newRenewCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "renew <id>",
		Short: "Extend a loan",
		Long: `Renew pushes the due date of a lent book back by --days days. Overdue
books cannot be renewed, and max_loan_days caps the whole loan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withLibrary(func(s *session) error {
				if !cmd.Flags().Changed("days") {
					days = s.DefaultLoanDays()
				}
				it, err := s.Renew(id, days)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(viewOf(it))
				}
				fmt.Fprintf(a.out, "Renewed #%d %s, now due %s\n", it.ID, it.Title, it.Loan.DueOn)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days to add (default: default_loan_days)")
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Take a book back",
		Long: `Return closes the loan on a book and charges daily_rate for every day
past the due date. When someone is on the wait-list the book goes straight
to them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withLibrary(func(s *session) error {
				r, err := s.Return(id)
				if err != nil {
					return err
				}
				if a.flagJSON {
					out := map[string]any{
						"id":        r.ItemID,
						"borrower":  r.Borrower,
						"days_late": r.DaysLate,
						"fee":       r.Fee,
					}
					if r.Relent() {
						out["relent_to"] = r.RelentTo
						out["due_on"] = r.NewDueOn.String()
					}
					return a.printJSON(out)
				}
				fmt.Fprintf(a.out, "Returned #%d from %s", r.ItemID, r.Borrower)
				if r.DaysLate > 0 {
					fmt.Fprintf(a.out, ", %d days late, fee %s", r.DaysLate, formatMoney(r.Fee))
				}
				fmt.Fprintln(a.out)
				if r.Relent() {
					fmt.Fprintf(a.out, "Handed to %s, due %s\n", r.RelentTo, r.NewDueOn)
				}
				return nil
			})
		},
	}
}
