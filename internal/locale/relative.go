package locale

import (
	"math"
	"time"
)

// Unit thresholds for Relative. A duration is shown in a unit while its
// rounded value stays under the threshold of the next larger unit.
const (
	secondsThreshold = 45 // below this: "par sekundi"
	minutesThreshold = 45 // below this many minutes: minutes
	hoursThreshold   = 22 // below this many hours: hours
	daysThreshold    = 26 // below this many days: days
	monthsThreshold  = 11 // below this many months: months
)

// daysPerMonth is the mean Gregorian month length.
const daysPerMonth = 146097.0 / 4800.0

// Relative describes target as seen from now, e.g. "za 2 sata" or
// "prije 5 minuta".
func Relative(target, now time.Time) string {
	d := target.Sub(now)
	dir := Future
	if d < 0 {
		dir = Past
		d = -d
	}
	return Duration(d, dir)
}

// Duration phrases a non-negative duration in the given direction, picking
// the largest unit that keeps the amount readable.
func Duration(d time.Duration, dir Direction) string {
	if d < 0 {
		d = -d
	}

	seconds := round(d.Seconds())
	minutes := round(d.Minutes())
	hours := round(d.Hours())
	days := round(d.Hours() / 24)
	months := round(d.Hours() / 24 / daysPerMonth)
	years := round(d.Hours() / 24 / daysPerMonth / 12)

	switch {
	case seconds < secondsThreshold:
		return wrap("par sekundi", dir)
	case minutes <= 1:
		return Format(1, Minutes, dir)
	case minutes < minutesThreshold:
		return Format(minutes, Minutes, dir)
	case hours <= 1:
		return Format(1, Hours, dir)
	case hours < hoursThreshold:
		return Format(hours, Hours, dir)
	case days <= 1:
		return Format(1, Days, dir)
	case days < daysThreshold:
		return Format(days, Days, dir)
	case months <= 1:
		return Format(1, Months, dir)
	case months < monthsThreshold:
		return Format(months, Months, dir)
	case years <= 1:
		return Format(1, Years, dir)
	default:
		return Format(years, Years, dir)
	}
}

// round rounds half away from zero; inputs are never negative.
func round(f float64) int {
	return int(math.Round(f))
}
