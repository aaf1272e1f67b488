// Package timetable supplies daily prayer tables to the engine. Tables come
// from a local YAML file or from fixed values given on the command line.
package timetable

import (
	"context"
	"errors"
	"time"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

// ErrUnknownLocation is returned when a provider has no table for a location.
var ErrUnknownLocation = errors.New("unknown location")

// Provider returns the table for location on the civil date of day.
type Provider interface {
	Table(ctx context.Context, location string, day time.Time) (prayer.Table, error)
}

// Staler is implemented by providers whose source can change underneath them.
// A stale provider should be asked for a fresh table on the next tick.
type Staler interface {
	Stale() bool
}

// Static serves the same six times for every day.
type Static struct {
	Location string
	Zone     *time.Location
	Times    []string
	Date     []string
}

// Table parses the fixed times. A non-empty location overrides the display
// name.
func (s *Static) Table(_ context.Context, location string, _ time.Time) (prayer.Table, error) {
	name := s.Location
	if location != "" {
		name = location
	}
	t, err := prayer.ParseTable(name, s.Zone, s.Times)
	if err != nil {
		return prayer.Table{}, err
	}
	t.Date = s.Date
	return t, nil
}
