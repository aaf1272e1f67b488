package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/timetable"
)

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations in the timetable",
		Long:  "Print every location the timetable holds. The configured location is marked with *.\nPick one with 'vaktija config set location <name>' or --location.",
		Args:  cobra.NoArgs,
		RunE:  runLocations,
	}
}

func runLocations(cmd *cobra.Command, args []string) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	names := []string{e.cfg.Location}
	if f, ok := e.provider.(*timetable.File); ok {
		if names, err = f.Locations(); err != nil {
			return err
		}
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), names)
	}

	w := cmd.OutOrStdout()
	for _, name := range names {
		marker := " "
		if strings.EqualFold(name, e.cfg.Location) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, name)
	}
	return nil
}
