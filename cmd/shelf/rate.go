// Rate command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate [value]",
		Short: "Show or set the overdue fee per day",
		Long: `Without an argument, rate prints the daily overdue fee in effect. With a
value it stores the new rate in config.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				rate := a.v.GetFloat64(cfgKeyDailyRate)
				if a.flagJSON {
					return a.printJSON(map[string]any{"daily_rate": rate})
				}
				fmt.Fprintln(a.out, formatMoney(rate))
				return nil
			}

			rate, err := parseRate(args[0])
			if err != nil {
				return err
			}
			if err := a.persistSetting(cfgKeyDailyRate, rate); err != nil {
				return err
			}
			if a.flagJSON {
				return a.printJSON(map[string]any{"daily_rate": rate})
			}
			fmt.Fprintf(a.out, "Daily rate set to %s\n", formatMoney(rate))
			return nil
		},
	}
}
