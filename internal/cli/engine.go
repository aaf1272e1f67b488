package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/config"
	"github.com/smokyabdulrahman/vaktija/internal/notify"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
	"github.com/smokyabdulrahman/vaktija/internal/tick"
	"github.com/smokyabdulrahman/vaktija/internal/timetable"
)

// defaultTimetableName is looked up in the config directory when neither
// --timetable nor --times is given.
const defaultTimetableName = "timetable.yaml"

// engine bundles the merged config with the timetable it points at.
type engine struct {
	cfg      config.Config
	zone     *time.Location
	provider timetable.Provider
}

func newEngine(cmd *cobra.Command) (*engine, error) {
	cfg := effectiveConfig(cmd)

	if cfg.TimeFormat != "12h" && cfg.TimeFormat != "24h" {
		return nil, fmt.Errorf("invalid time format %q: must be \"12h\" or \"24h\"", cfg.TimeFormat)
	}
	zone, err := time.LoadLocation(cfg.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Zone, err)
	}
	provider, err := newProvider(cfg, zone)
	if err != nil {
		return nil, err
	}

	return &engine{cfg: cfg, zone: zone, provider: provider}, nil
}

// newProvider picks the timetable source: --times > --timetable > the
// default file in the config directory.
func newProvider(cfg config.Config, zone *time.Location) (timetable.Provider, error) {
	if cfg.Times != "" {
		return &timetable.Static{
			Location: cfg.Location,
			Zone:     zone,
			Times:    config.SplitList(cfg.Times),
		}, nil
	}

	path := cfg.Timetable
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, defaultTimetableName)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("no timetable found: pass --times or --timetable, or create %s", path)
		}
	}
	return timetable.NewFile(path, zone), nil
}

// loop builds a tick loop over the engine's provider. Fields of opts that
// come from config are overwritten.
func (e *engine) loop(opts tick.Options) *tick.Loop {
	opts.Location = e.cfg.Location
	opts.Zone = e.zone
	opts.Provider = e.provider
	opts.Clock = clock
	opts.Lead = e.cfg.LeadOrDefault(notify.DefaultLead)
	opts.AutoTheme = e.cfg.AutoTheme != nil && *e.cfg.AutoTheme
	opts.Theme = prayer.ThemeTag(e.cfg.Theme)
	opts.Logger = logger
	return tick.New(opts)
}

// snapshot runs a single tick at the current time.
func (e *engine) snapshot(ctx context.Context) (prayer.Snapshot, error) {
	snap := e.loop(tick.Options{}).Step(ctx, clock.Now())
	if snap.Err != "" {
		return snap, errors.New(snap.Err)
	}
	return snap, nil
}

// table returns the table for location on day from the engine's provider.
func (e *engine) table(ctx context.Context, day time.Time) (prayer.Table, error) {
	return e.provider.Table(ctx, e.cfg.Location, day)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONLine writes v as a single line of JSON.
func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
