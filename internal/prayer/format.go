package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format constants for display modes.
const (
	FormatCountdown          = "countdown"
	FormatRelative           = "relative"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Slot name, e.g. "Ikindija"
	ShortName string // Abbreviated name, e.g. "I"
	Time      string // Formatted slot time, e.g. "16:15" or "4:15 PM"
	Remaining string // Countdown, e.g. "02:15:07"
	Relative  string // Bosnian phrase, e.g. "za 2 sata"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// FormatOutput formats the next slot of a snapshot according to mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a Go template over FormatData.
//
// Example: "{{.Name}} {{.Relative}}" -> "Ikindija za 2 sata"
func FormatOutput(s Snapshot, mode string, timeFormat string) string {
	d := TimeRemaining(s.Target, s.At)
	if d < 0 {
		d = 0
	}
	timeStr := s.Target.Format(timeFormat)
	short := ShortNames[s.NextName]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      s.NextName,
			ShortName: short,
			Time:      timeStr,
			Remaining: s.Countdown,
			Relative:  s.CountdownText,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
		})
	}

	switch mode {
	case FormatCountdown:
		return s.Countdown
	case FormatRelative:
		return s.CountdownText
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", s.NextName, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", s.NextName, s.CountdownText)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, s.Countdown)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", s.NextName, timeStr, s.CountdownText)
	default:
		return fmt.Sprintf("%s %s", s.NextName, timeStr)
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
