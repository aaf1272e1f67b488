package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/locale"
)

var (
	flagPast bool
	flagBare bool
)

func newRelativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relative <amount> <unit>",
		Short: "Print a Bosnian relative-time phrase",
		Long: "Format an amount of time the way the countdown does, with the correct grammatical number.\n" +
			"Units: s, m, h, d, M, y or seconds, minutes, hours, days, months, years.\n\n" +
			"Examples:\n  vaktija relative 21 minutes     # za 21 minutu\n  vaktija relative 3 h --past      # prije 3 sata",
		Args: cobra.ExactArgs(2),
		RunE: runRelative,
	}

	cmd.Flags().BoolVar(&flagPast, "past", false, "Phrase the amount as elapsed (prije ...)")
	cmd.Flags().BoolVar(&flagBare, "bare", false, "Print the amount without za/prije")
	cmd.MarkFlagsMutuallyExclusive("past", "bare")

	return cmd
}

func runRelative(cmd *cobra.Command, args []string) error {
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q: must be an integer", args[0])
	}
	unit, err := locale.ParseUnit(args[1])
	if err != nil {
		return err
	}

	dir := locale.Future
	switch {
	case flagPast:
		dir = locale.Past
	case flagBare:
		dir = locale.Bare
	}

	fmt.Fprintln(cmd.OutOrStdout(), locale.Format(amount, unit, dir))
	return nil
}
