// Add command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var title, author string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Long: `Add creates an available book. Title and author are stored in title
case; a book whose normalized title and author match an existing one is
rejected as a duplicate.

Example:
  shelf add --title "kürk mantolu madonna" --author "sabahattin ali"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				it, err := s.Add(title, author)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(viewOf(it))
				}
				fmt.Fprintf(a.out, "Added %s\n", describe(it))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	return cmd
}
