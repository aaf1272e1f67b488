package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/vaktija/internal/config"
	"github.com/smokyabdulrahman/vaktija/internal/display"
	"github.com/smokyabdulrahman/vaktija/internal/tick"
)

// Global flags shared across all subcommands.
var (
	FlagLocation   string
	FlagZone       string
	FlagTimetable  string
	FlagTimes      string
	FlagJSON       bool
	FlagTimeFormat string
	FlagVerbose    bool
)

// loadedConfig holds the config loaded during PersistentPreRunE, with
// environment overrides applied. Available to all subcommand handlers.
var loadedConfig *config.Config

// logger is built in PersistentPreRunE and writes to stderr.
var logger = log.New(io.Discard)

// clock is the time source for every command. Tests replace it.
var clock tick.Clock = tick.RealClock{}

// NewRootCmd creates the root command for the vaktija CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "vaktija",
		Short:   "Daily prayer times with a live countdown",
		Long:    "Shows the six daily prayer times (vaktija) for a location, counts down to the next one\nand sends a reminder before each. Times come from a local YAML timetable or --times.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), FlagVerbose)

			if dir, err := config.Dir(); err == nil {
				if err := config.LoadDotEnv(".env", filepath.Join(dir, ".env")); err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
				return fmt.Errorf("invalid environment override: %w", err)
			}
			loadedConfig = cfg

			if FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagLocation, "location", "", "Location name in the timetable (overrides config)")
	pf.StringVar(&FlagZone, "zone", "", "Reference timezone, e.g. Europe/Sarajevo")
	pf.StringVar(&FlagTimetable, "timetable", "", "Path to a YAML timetable (default: ~/.config/vaktija/timetable.yaml)")
	pf.StringVar(&FlagTimes, "times", "", "Six comma-separated HH:MM times, used instead of a timetable")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Enable debug logging")

	// Register subcommands.
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newRelativeCmd())
	rootCmd.AddCommand(newLocationsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// newLogger builds the process logger. Debug output is enabled by --verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "vaktija",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) config.Config {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "location") {
		cfg.Location = FlagLocation
	}
	if flagWasSet(flags, root, "zone") {
		cfg.Zone = FlagZone
	}
	if flagWasSet(flags, root, "timetable") {
		cfg.Timetable = FlagTimetable
	}
	if flagWasSet(flags, root, "times") {
		cfg.Times = FlagTimes
	}
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}

	return cfg.WithDefaults()
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
