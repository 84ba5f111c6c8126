// Waitlist commands for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWaitlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "Manage the wait-list of a lent book",
		Long: `A borrower can wait for a lent book. On return the book is lent to the
first borrower in line.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "join <id> <borrower>",
			Short: "Queue a borrower for a lent book",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.withLibrary(func(s *session) error {
					pos, err := s.JoinWaitlist(id, args[1])
					if err != nil {
						return err
					}
					if a.flagJSON {
						return a.printJSON(map[string]any{"id": id, "borrower": args[1], "position": pos})
					}
					fmt.Fprintf(a.out, "%s is number %d in line for #%d\n", args[1], pos, id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "leave <id> <borrower>",
			Short: "Remove a borrower from the wait-list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.withLibrary(func(s *session) error {
					left, err := s.LeaveWaitlist(id, args[1])
					if err != nil {
						return err
					}
					if a.flagJSON {
						return a.printJSON(map[string]any{"id": id, "borrower": args[1], "removed": left})
					}
					if left {
						fmt.Fprintf(a.out, "%s left the wait-list for #%d\n", args[1], id)
					} else {
						fmt.Fprintf(a.out, "%s was not waiting for #%d\n", args[1], id)
					}
					return nil
				})
			},
		},
	)
	return cmd
}
