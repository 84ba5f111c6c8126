// Init and version commands for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the release of this build; mage build overrides it with
// -ldflags "-X main.version=...".
var version = "v0.1.0"

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and data directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The root command already created config.yaml.
			return a.withLibrary(func(s *session) error {
				if err := s.Save(); err != nil {
					return err
				}
				cfg, err := a.libraryConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Shelf initialized")
				fmt.Fprintln(a.out, "  config:", a.configDir)
				fmt.Fprintln(a.out, "  data:  ", cfg.DataDir)
				return nil
			})
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shelf version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, "shelf", version)
		},
	}
}
