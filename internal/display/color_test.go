package display

import (
	"testing"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

func TestWrap_Enabled(t *testing.T) {
	// Force colors on for testing.
	SetEnabled(true)
	defer SetEnabled(false)

	got := Bold("hello")
	if got != "\033[1mhello\033[0m" {
		t.Errorf("Bold(\"hello\") = %q, want ANSI bold wrapped", got)
	}
}

func TestWrap_Disabled(t *testing.T) {
	SetEnabled(false)

	got := Bold("hello")
	if got != "hello" {
		t.Errorf("Bold(\"hello\") with colors disabled = %q, want plain \"hello\"", got)
	}
}

func TestDim(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Dim("text")
	if got != "\033[2mtext\033[0m" {
		t.Errorf("Dim(\"text\") = %q, want ANSI dim wrapped", got)
	}
}

func TestPaletteFor(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		theme prayer.ThemeTag
		want  string
	}{
		{prayer.ThemeDay, "\033[1m\033[34mAkšam\033[0m"},
		{prayer.ThemeNight, "\033[1m\033[33mAkšam\033[0m"},
		{"", "\033[1m\033[33mAkšam\033[0m"},
	}

	for _, tt := range tests {
		t.Run(string(tt.theme), func(t *testing.T) {
			if got := PaletteFor(tt.theme).Accent("Akšam"); got != tt.want {
				t.Errorf("Accent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPalette_Muted(t *testing.T) {
	SetEnabled(true)
	got := DayPalette.Muted("prije 2 sata")
	SetEnabled(false)

	if got != "\033[90mprije 2 sata\033[0m" {
		t.Errorf("Muted = %q", got)
	}
	if plain := NightPalette.Muted("x"); plain != "x" {
		t.Errorf("Muted with colors disabled = %q, want plain", plain)
	}
}

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}
