package timetable

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

const dayKeyLayout = "2006-01-02"

// document is the on-disk layout of a timetable file:
//
//	zone: Europe/Sarajevo
//	locations:
//	  Sarajevo:
//	    default: ["04:30", "06:00", "12:30", "16:15", "19:45", "21:15"]
//	    days:
//	      "2026-06-15": ["04:29", "05:59", "12:30", "16:15", "19:46", "21:16"]
//	      "2026-06-16":
//	        times: ["04:29", "05:59", "12:31", "16:16", "19:46", "21:17"]
//	        date: ["utorak, 16. juni 2026", "1. muharrem 1448"]
type document struct {
	Zone      string               `yaml:"zone"`
	Locations map[string]*location `yaml:"locations"`
}

type location struct {
	Default []string            `yaml:"default"`
	Date    []string            `yaml:"date"`
	Days    map[string]dayEntry `yaml:"days"`
}

type dayEntry struct {
	Times []string `yaml:"times"`
	Date  []string `yaml:"date"`
}

// UnmarshalYAML accepts either a bare list of times or a mapping with times
// and date strings.
func (d *dayEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&d.Times)
	}
	type plain dayEntry
	return value.Decode((*plain)(d))
}

// File reads tables from a YAML file. The file is parsed lazily and cached
// until Invalidate is called.
type File struct {
	path string
	zone *time.Location

	stale atomic.Bool

	mu   sync.Mutex
	doc  *document
	loc  *time.Location
	keys []string
}

// NewFile returns a provider for path. zone is used when the file does not
// name one.
func NewFile(path string, zone *time.Location) *File {
	return &File{path: path, zone: zone}
}

// Path returns the file being read.
func (f *File) Path() string {
	return f.path
}

// Invalidate marks the cached document stale. Safe to call from any goroutine.
func (f *File) Invalidate() {
	f.stale.Store(true)
}

// Stale reports whether the file changed since it was last read.
func (f *File) Stale() bool {
	return f.stale.Load()
}

// Table returns the table for location on day. A per-day entry overrides the
// location's default times. Location names match case-insensitively, and an
// empty name selects the only location of a single-location file.
func (f *File) Table(_ context.Context, name string, day time.Time) (prayer.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.doc == nil || f.stale.Swap(false) {
		if err := f.load(); err != nil {
			return prayer.Table{}, err
		}
	}

	key, loc, err := f.lookup(name)
	if err != nil {
		return prayer.Table{}, err
	}

	times, date := loc.Default, loc.Date
	if entry, ok := loc.Days[day.In(f.loc).Format(dayKeyLayout)]; ok {
		if len(entry.Times) > 0 {
			times = entry.Times
		}
		if len(entry.Date) > 0 {
			date = entry.Date
		}
	}
	if len(times) == 0 {
		return prayer.Table{}, fmt.Errorf("%s: no times for %s on %s", f.path, key, day.In(f.loc).Format(dayKeyLayout))
	}

	t, err := prayer.ParseTable(key, f.loc, times)
	if err != nil {
		return prayer.Table{}, fmt.Errorf("%s: %s: %w", f.path, key, err)
	}
	t.Date = date
	return t, nil
}

// Locations returns the location names in the file, sorted.
func (f *File) Locations() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.doc == nil || f.stale.Swap(false) {
		if err := f.load(); err != nil {
			return nil, err
		}
	}
	return append([]string(nil), f.keys...), nil
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to read timetable: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse timetable %s: %w", f.path, err)
	}

	loc := f.zone
	if doc.Zone != "" {
		l, err := time.LoadLocation(doc.Zone)
		if err != nil {
			return fmt.Errorf("timetable %s: invalid zone %q: %w", f.path, doc.Zone, err)
		}
		loc = l
	}
	if loc == nil {
		loc = prayer.Table{}.Loc()
	}

	keys := make([]string, 0, len(doc.Locations))
	for k := range doc.Locations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f.doc, f.loc, f.keys = &doc, loc, keys
	return nil
}

// lookup matches name case-insensitively. A file with a single location
// serves it for any name.
func (f *File) lookup(name string) (string, *location, error) {
	for _, k := range f.keys {
		if strings.EqualFold(k, name) && f.doc.Locations[k] != nil {
			return k, f.doc.Locations[k], nil
		}
	}
	if len(f.keys) == 1 && f.doc.Locations[f.keys[0]] != nil {
		return f.keys[0], f.doc.Locations[f.keys[0]], nil
	}
	return "", nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownLocation, name, strings.Join(f.keys, ", "))
}
