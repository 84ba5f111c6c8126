// Seed command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the demo books",
		Long: `Seed adds Dune, Kürk Mantolu Madonna and 1984 when they are missing.
1984 is lent to Zey and two days overdue, so overdue and return have
something to show.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				added, err := s.Seed()
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(viewsOf(added))
				}
				if len(added) == 0 {
					fmt.Fprintln(a.out, "Demo books are already in the catalog.")
					return nil
				}
				for _, it := range added {
					fmt.Fprintf(a.out, "Added %s\n", describe(it))
				}
				return nil
			})
		},
	}
}
