package prayer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// SlotCount is the number of prayer slots in a day.
const SlotCount = 6

// NextDay is the slot index returned by Locate when every slot of the day has
// passed. The next relevant slot is the first slot of tomorrow.
const NextDay = SlotCount

// DefaultZone is the reference timezone used when a table has none.
const DefaultZone = "Europe/Sarajevo"

// ErrMalformedTable is returned when a table does not hold exactly six
// non-decreasing times.
var ErrMalformedTable = errors.New("malformed prayer table")

// SlotNames are the Bosnian names of the six daily slots, in order.
var SlotNames = [SlotCount]string{
	"Zora", "Izlazak sunca", "Podne", "Ikindija", "Akšam", "Jacija",
}

// ShortNames maps slot names to short labels for status lines.
var ShortNames = map[string]string{
	"Zora":          "Z",
	"Izlazak sunca": "IS",
	"Podne":         "P",
	"Ikindija":      "I",
	"Akšam":         "A",
	"Jacija":        "J",
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String returns the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the time of day onto the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Table is the immutable set of prayer times for one location and day.
// A new table replaces the old one whenever the location or day changes.
type Table struct {
	Location string
	Zone     *time.Location
	// Date holds opaque calendar display strings, e.g. Gregorian and Hijri.
	Date  []string
	Slots []TimeOfDay
}

// ParseTable builds a table from raw "HH:MM" strings and validates it.
// A nil zone means DefaultZone.
func ParseTable(location string, zone *time.Location, raw []string) (Table, error) {
	if len(raw) != SlotCount {
		return Table{}, fmt.Errorf("%w: got %d times, want %d", ErrMalformedTable, len(raw), SlotCount)
	}

	slots := make([]TimeOfDay, 0, SlotCount)
	for i, r := range raw {
		t, err := ParseTimeOfDay(r)
		if err != nil {
			return Table{}, fmt.Errorf("failed to parse time for %s (%q): %w", SlotNames[i], r, err)
		}
		slots = append(slots, t)
	}

	t := Table{Location: location, Zone: zone, Slots: slots}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// ParseTimeOfDay parses "15:02" or "15:02 (CET)" into a TimeOfDay.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	// Strip timezone suffix like " (CET)".
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", raw)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", raw)
	}

	return TimeOfDay{Hour: hour, Minute: min}, nil
}

// Validate reports ErrMalformedTable if the table has the wrong number of
// slots or is not ordered within the day.
func (t Table) Validate() error {
	if len(t.Slots) != SlotCount {
		return fmt.Errorf("%w: got %d slots, want %d", ErrMalformedTable, len(t.Slots), SlotCount)
	}
	for i := 1; i < len(t.Slots); i++ {
		if t.Slots[i].minutes() < t.Slots[i-1].minutes() {
			return fmt.Errorf("%w: %s (%s) is before %s (%s)", ErrMalformedTable,
				SlotNames[i], t.Slots[i], SlotNames[i-1], t.Slots[i-1])
		}
	}
	return nil
}

// Loc returns the table's reference zone.
func (t Table) Loc() *time.Location {
	if t.Zone != nil {
		return t.Zone
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// At returns slot i anchored to the civil date of day in the table's zone.
func (t Table) At(i int, day time.Time) time.Time {
	return t.Slots[i].On(day.In(t.Loc()))
}

// Name returns the slot name for index i, wrapping the NextDay sentinel
// to the first slot.
func Name(i int) string {
	if i == NextDay {
		return SlotNames[0]
	}
	if i < 0 || i >= SlotCount {
		return ""
	}
	return SlotNames[i]
}

// Locate returns the index of the next slot relative to now.
// A slot whose instant equals now still counts as upcoming. When every slot
// has passed it returns NextDay.
func Locate(t Table, now time.Time) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	now = now.In(t.Loc())
	for i := range t.Slots {
		if !now.After(t.At(i, now)) {
			return i, nil
		}
	}
	return NextDay, nil
}

// Target returns the instant being counted down to for slot idx.
// For NextDay it is tomorrow's first slot, taken from tomorrow when given and
// otherwise from today's table re-anchored one day ahead.
func Target(t Table, idx int, now time.Time, tomorrow *Table) time.Time {
	now = now.In(t.Loc())
	if idx < NextDay {
		return t.At(idx, now)
	}

	next := now.AddDate(0, 0, 1)
	if tomorrow != nil && tomorrow.Validate() == nil {
		return tomorrow.At(0, next)
	}
	return t.At(0, next)
}

// TimeRemaining returns the duration from now until target.
func TimeRemaining(target, now time.Time) time.Duration {
	return target.Sub(now)
}

// FormatRemaining formats a duration as a "HH:MM:SS" countdown.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
