package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/display"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer times",
		Long:  "Display today's six prayer times with the next one highlighted and a countdown.\nThis is also the default when no subcommand is given.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	snap, err := e.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), snap)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), display.Render(snap, e.cfg.TimeFormat))
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
