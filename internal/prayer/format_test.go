package prayer

import (
	"strings"
	"testing"
	"time"
)

// helper: a snapshot counting down to Ikindija.
func formatTestSnapshot() Snapshot {
	return Snapshot{
		At:            time.Date(2026, 6, 15, 14, 0, 0, 0, testZone),
		Next:          3,
		NextName:      "Ikindija",
		Target:        time.Date(2026, 6, 15, 16, 15, 0, 0, testZone),
		Countdown:     "02:15:00",
		CountdownText: "za 2 sata",
	}
}

func TestFormatOutput_AllBuiltinModes(t *testing.T) {
	s := formatTestSnapshot()

	tests := []struct {
		mode string
		want string
	}{
		{FormatCountdown, "02:15:00"},
		{FormatRelative, "za 2 sata"},
		{FormatNextPrayerTime, "16:15"},
		{FormatNameAndTime, "Ikindija 16:15"},
		{FormatNameAndRemaining, "Ikindija za 2 sata"},
		{FormatShortNameAndTime, "I 16:15"},
		{FormatShortNameAndRemain, "I 02:15:00"},
		{FormatFull, "Ikindija 16:15 (za 2 sata)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := FormatOutput(s, tt.mode, "15:04")
			if got != tt.want {
				t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_12HourFormat(t *testing.T) {
	got := FormatOutput(formatTestSnapshot(), FormatNameAndTime, "3:04 PM")
	if got != "Ikindija 4:15 PM" {
		t.Errorf("12h format = %q, want %q", got, "Ikindija 4:15 PM")
	}
}

func TestFormatOutput_UnknownModeDefaultsToNameAndTime(t *testing.T) {
	got := FormatOutput(formatTestSnapshot(), "nonexistent-format", "15:04")
	if got != "Ikindija 16:15" {
		t.Errorf("unknown mode = %q, want %q", got, "Ikindija 16:15")
	}
}

func TestFormatOutput_CustomTemplate(t *testing.T) {
	s := formatTestSnapshot()

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"name and relative", "{{.Name}} {{.Relative}}", "Ikindija za 2 sata"},
		{"hours and minutes fields", "{{.Hours}}h {{.Minutes}}m do {{.ShortName}}", "2h 15m do I"},
		{"all fields", "{{.Name}}|{{.ShortName}}|{{.Time}}|{{.Remaining}}|{{.Relative}}", "Ikindija|I|16:15|02:15:00|za 2 sata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatOutput(s, tt.tmpl, "15:04")
			if got != tt.want {
				t.Errorf("custom template %q = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_InvalidTemplate(t *testing.T) {
	got := FormatOutput(formatTestSnapshot(), "{{.Invalid", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("invalid template should return 'template-err:...', got %q", got)
	}
}

func TestFormatOutput_TemplateBadField(t *testing.T) {
	got := FormatOutput(formatTestSnapshot(), "{{.NonExistent}}", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("bad field template should return 'template-err:...', got %q", got)
	}
}
