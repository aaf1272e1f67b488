// Package locale renders Bosnian relative-time phrases.
//
// Bosnian nouns agree with the numeral in front of them: "1 sekunda",
// "3 sekunde", "5 sekundi". Minutes and hours follow the last digit of the
// amount, except that 11 to 19 always take the genitive plural ("21 minutu"
// but "11 minuta"). Nothing here touches process-wide state.
package locale

import (
	"fmt"
	"strconv"
)

// Unit is the time unit of a phrase.
type Unit int

const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Months
	Years
)

var unitNames = map[string]Unit{
	"s": Seconds, "second": Seconds, "seconds": Seconds,
	"m": Minutes, "minute": Minutes, "minutes": Minutes,
	"h": Hours, "hour": Hours, "hours": Hours,
	"d": Days, "day": Days, "days": Days,
	"M": Months, "month": Months, "months": Months,
	"y": Years, "year": Years, "years": Years,
}

// ParseUnit maps "minutes", "minute" or "m" (and so on) to a Unit.
func ParseUnit(s string) (Unit, error) {
	u, ok := unitNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q: use seconds, minutes, hours, days, months or years", s)
	}
	return u, nil
}

// Direction says whether the phrase points forward or backward in time.
type Direction int

const (
	Future Direction = iota
	Past
	// Bare yields the phrase without "za"/"prije", e.g. for labels.
	Bare
)

// Format returns the Bosnian phrase for amount units in direction dir,
// e.g. Format(2, Minutes, Future) == "za 2 minute".
func Format(amount int, unit Unit, dir Direction) string {
	if amount < 0 {
		amount = -amount
	}
	return wrap(phrase(amount, unit, dir), dir)
}

func wrap(p string, dir Direction) string {
	switch dir {
	case Future:
		return "za " + p
	case Past:
		return "prije " + p
	default:
		return p
	}
}

func phrase(n int, unit Unit, dir Direction) string {
	num := strconv.Itoa(n)

	switch unit {
	case Seconds:
		return num + " " + byAmount(n, "sekunda", "sekunde", "sekundi")
	case Minutes:
		if n == 1 {
			if dir == Bare {
				return "jedna minuta"
			}
			return "jednu minutu"
		}
		return num + " " + byLastDigit(n, "minutu", "minute", "minuta")
	case Hours:
		if n == 1 {
			return "jedan sat"
		}
		return num + " " + byLastDigit(n, "sat", "sata", "sati")
	case Days:
		if n == 1 {
			return "dan"
		}
		return num + " dana"
	case Months:
		if n == 1 {
			return "mjesec"
		}
		return num + " " + byAmount(n, "mjesec", "mjeseca", "mjeseci")
	case Years:
		if n == 1 {
			return "godinu"
		}
		return num + " " + byAmount(n, "godinu", "godine", "godina")
	default:
		return num + " minuta"
	}
}

// byAmount picks the form by the whole amount: 1, 2-4, everything else.
func byAmount(n int, one, few, many string) string {
	switch {
	case n == 1:
		return one
	case n >= 2 && n <= 4:
		return few
	default:
		return many
	}
}

// byLastDigit picks the form by the last digit, with 11-19 always many.
func byLastDigit(n int, one, few, many string) string {
	if teen := n % 100; teen >= 11 && teen <= 19 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}
