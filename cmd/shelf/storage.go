// Export, import, save and load commands for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the catalog to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				n, err := s.ExportCSV(args[0])
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(map[string]any{"path": args[0], "rows": n})
				}
				fmt.Fprintf(a.out, "Exported %d books to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Add books from a CSV file",
		Long: `Import reads title,author rows. A header naming "title" and "author"
selects those columns, so files written by export can be imported again.
Duplicates and rows missing a title or author are skipped and counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				res, err := s.ImportCSV(args[0])
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(map[string]any{
						"added":      res.Added,
						"duplicates": res.Duplicates,
						"invalid":    res.Invalid,
					})
				}
				fmt.Fprintf(a.out, "Imported %d books (%d duplicates, %d invalid rows skipped)\n",
					res.Added, res.Duplicates, res.Invalid)
				return nil
			})
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the catalog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				if err := s.Save(); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved to %s\n", s.StorePath())
				return nil
			})
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Read and check the catalog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				if err := s.Load(); err != nil {
					return err
				}
				counts, err := s.Counts()
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(map[string]any{
						"path":      s.StorePath(),
						"total":     counts.Total,
						"available": counts.Available,
						"lent":      counts.Lent,
					})
				}
				fmt.Fprintf(a.out, "Loaded %d books from %s (%d available, %d lent)\n",
					counts.Total, s.StorePath(), counts.Available, counts.Lent)
				return nil
			})
		},
	}
}
