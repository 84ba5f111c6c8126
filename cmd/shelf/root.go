// Root command for the shelf CLI.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shelf/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app carries global flag values and the loaded configuration through one
// invocation.
type app struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagRate      float64

	// started is set once argument and flag validation has passed.
	started bool

	configDir string
	v         *viper.Viper

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(errOut, "shelf:", err)
	if !a.started {
		return exitUserError
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf is a local lending catalog",
		Long: `Shelf keeps a small catalog of books: add and search titles, lend them
out, take returns with overdue fees, and keep a wait-list per book.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = true

			configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			v, err := loadConfig(configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rate") {
				v.Set(cfgKeyDailyRate, a.flagRate)
			}
			a.configDir, a.v = configDir, v
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: ./.shelf or the platform config dir)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: ./.shelf or the platform data dir)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")
	root.PersistentFlags().Float64Var(&a.flagRate, "rate", 0, "overdue fee per day for this run")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newAddCmd(a),
		newLendCmd(a),
		newWaitlistCmd(a),
		newRenewCmd(a),
		newOverdueCmd(a),
		newReturnCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSaveCmd(a),
		newLoadCmd(a),
		newRateCmd(a),
		newSeedCmd(a),
		newHistoryCmd(a),
		newMenuCmd(a),
	)
	return root
}
