package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/display"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

// maxListDays bounds list output to roughly a year.
const maxListDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// listJSONDay is one day of the list command's JSON output.
type listJSONDay struct {
	Date     string            `json:"date"`
	Location string            `json:"location"`
	Calendar []string          `json:"calendar,omitempty"`
	Times    map[string]string `json:"times"`
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxListDays {
			return fmt.Errorf("invalid number of days: %q (must be between 1 and %d)", args[0], maxListDays)
		}
		days = n
	}

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	layout := display.TimeLayout(e.cfg.TimeFormat)
	start := clock.Now().In(e.zone)

	headers := append([]string{"Datum"}, prayer.SlotNames[:]...)
	tbl := display.NewTable(headers)
	tbl.SetHighlightRow(0)

	var out []listJSONDay
	location := e.cfg.Location
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		t, err := e.table(cmd.Context(), day)
		if err != nil {
			return fmt.Errorf("%s: %w", day.Format("2006-01-02"), err)
		}
		location = t.Location

		row := []string{day.Format("02.01.2006")}
		times := make(map[string]string, prayer.SlotCount)
		for j, s := range t.Slots {
			clk := display.Clock(s.String(), layout)
			row = append(row, clk)
			times[prayer.SlotNames[j]] = clk
		}
		tbl.AddRow(row)
		out = append(out, listJSONDay{
			Date:     day.Format("2006-01-02"),
			Location: t.Location,
			Calendar: t.Date,
			Times:    times,
		})
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Vaktija: %s, od %s", location, start.Format("02.01.2006"))))
	fmt.Fprintln(w)
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}
