// List command for the shelf CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var available bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Long: `List prints every book in id order, or only the books that can be lent
right now with --available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				var (
					items []types.Item
					err   error
				)
				if available {
					items, err = s.ListAvailable()
				} else {
					items, err = s.ListAll()
				}
				if err != nil {
					return err
				}
				return a.printItems(items, nil)
			})
		},
	}
	cmd.Flags().BoolVar(&available, "available", false, "only books that are not lent")
	return cmd
}
