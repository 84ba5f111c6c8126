// Search command for the shelf CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/search"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		mode      string
		available bool
		lent      bool
		regex     bool
	)
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search titles and authors",
		Long: `Search matches the query against titles and authors, ignoring case,
accents and the Turkish dotted/dotless i.

Modes:
  any     a book matches when any query word occurs (default)
  all     every query word must occur
  prefix  the title or the author starts with the query

With --regex the query is a regular expression matched against the
normalized "title author" text, and --mode is ignored.

Example:
  shelf search dune
  shelf search --mode all frank herbert
  shelf search --mode prefix kurk --available
  shelf search --regex '^dune|orwell$'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := types.ParseSearchMode(mode)
			if err != nil {
				return err
			}
			if available && lent {
				return fmt.Errorf("%w: --available and --lent are exclusive", types.ErrValidation)
			}
			opts := search.Options{Mode: m}
			switch {
			case available:
				opts.Availability = search.AvailableOnly
			case lent:
				opts.Availability = search.LentOnly
			}
			query := strings.Join(args, " ")

			return a.withLibrary(func(s *session) error {
				if regex {
					items, err := s.SearchRegex(query, opts.Availability)
					if err != nil {
						return err
					}
					return a.printItems(items, nil)
				}
				items, err := s.Search(query, opts)
				if err != nil {
					return err
				}
				return a.printItems(items, func(text string) string {
					return search.Mark(text, query, "[", "]")
				})
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "any", "match mode: any, all or prefix")
	cmd.Flags().BoolVar(&available, "available", false, "only books that are not lent")
	cmd.Flags().BoolVar(&lent, "lent", false, "only books that are lent")
	cmd.Flags().BoolVar(&regex, "regex", false, "treat the query as a regular expression")
	return cmd
}
