package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/display"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown. The output has no trailing\nnewline so it can be embedded in status bars.",
		Args:  cobra.NoArgs,
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: countdown, relative, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

// nextJSON is the JSON output structure for the next command.
type nextJSON struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Relative  string `json:"relative"`
	Tomorrow  bool   `json:"tomorrow"`
}

func runNext(cmd *cobra.Command, args []string) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	snap, err := e.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	layout := display.TimeLayout(e.cfg.TimeFormat)

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), nextJSON{
			Slot:      snap.Next,
			Name:      snap.NextName,
			Time:      snap.Target.Format(layout),
			Remaining: snap.Countdown,
			Relative:  snap.CountdownText,
			Tomorrow:  snap.Next == prayer.NextDay,
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(snap, flagFormat, layout))
	return nil
}
