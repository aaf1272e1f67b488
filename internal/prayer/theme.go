package prayer

import "time"

// ThemeTag selects the day or night palette.
type ThemeTag string

const (
	ThemeDay   ThemeTag = "day"
	ThemeNight ThemeTag = "night"
)

// ParseTheme converts "day"/"light" and "night"/"dark" into a ThemeTag.
func ParseTheme(s string) (ThemeTag, bool) {
	switch s {
	case "day", "light":
		return ThemeDay, true
	case "night", "dark":
		return ThemeNight, true
	}
	return "", false
}

// Theme returns ThemeDay when now lies strictly between sunrise and sunset,
// and ThemeNight otherwise, including at both boundary instants.
func Theme(t Table, now time.Time) ThemeTag {
	if t.Validate() != nil {
		return ThemeNight
	}
	now = now.In(t.Loc())
	if now.After(t.At(1, now)) && now.Before(t.At(4, now)) {
		return ThemeDay
	}
	return ThemeNight
}
