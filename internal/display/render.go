package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

// TimeLayout maps the config time format ("12h" or "24h") to a Go layout.
func TimeLayout(format string) string {
	if format == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// Clock reformats an "HH:MM" slot time with layout. Unparseable values are
// returned unchanged.
func Clock(hhmm, layout string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format(layout)
}

// Render formats a snapshot as the day view: a header with the location and
// date, the six slots with the next one highlighted, and the countdown.
func Render(s prayer.Snapshot, timeFormat string) string {
	layout := TimeLayout(timeFormat)
	p := PaletteFor(s.Theme)

	var sb strings.Builder

	header := s.Location
	if len(s.Date) > 0 {
		header += "  " + p.Muted(strings.Join(s.Date, " / "))
	}
	sb.WriteString("  " + Bold(header) + "\n\n")

	if s.Err != "" {
		sb.WriteString("  " + p.Accent("greška: "+s.Err) + "\n")
		return sb.String()
	}

	tbl := NewTable([]string{"Vakat", "Vrijeme", ""})
	tbl.SetPalette(p)
	for i, slot := range s.Slots {
		tbl.AddRow([]string{slot.Name, Clock(slot.Time, layout), slot.Relative})
		if slot.Next {
			tbl.SetHighlightRow(i)
		}
	}
	sb.WriteString(tbl.Render())
	sb.WriteString("\n")

	name := s.NextName
	if s.Next == prayer.NextDay {
		name += " (sutra)"
	}
	sb.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
		p.Accent(name), s.Target.Format(layout), s.CountdownText, Bold(s.Countdown)))

	return sb.String()
}

// Screen redraws the day view on every snapshot. It satisfies the tick
// loop's sink interface.
type Screen struct {
	w          io.Writer
	timeFormat string

	mu   sync.Mutex
	last string
}

// NewScreen returns a Screen writing to w.
func NewScreen(w io.Writer, timeFormat string) *Screen {
	return &Screen{w: w, timeFormat: timeFormat}
}

// Publish renders s. The screen is cleared first when colors are enabled;
// an unchanged frame is not rewritten.
func (sc *Screen) Publish(_ context.Context, s prayer.Snapshot) error {
	frame := Render(s, sc.timeFormat)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if frame == sc.last {
		return nil
	}
	sc.last = frame

	if enabled {
		frame = clearSc + frame
	}
	_, err := io.WriteString(sc.w, frame)
	return err
}
