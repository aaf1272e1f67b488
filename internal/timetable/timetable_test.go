package timetable

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

const sampleYAML = `zone: Europe/Sarajevo
locations:
  Sarajevo:
    default: ["04:30", "06:00", "12:30", "16:15", "19:45", "21:15"]
    date: ["opći datum"]
    days:
      "2026-06-15": ["04:29", "05:59", "12:30", "16:15", "19:46", "21:16"]
      "2026-06-16":
        times: ["04:29", "05:59", "12:31", "16:16", "19:46", "21:17"]
        date: ["utorak, 16. juni 2026", "1. muharrem 1448"]
  Mostar:
    default: ["04:27", "05:57", "12:27", "16:12", "19:41", "21:11"]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaktija.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func day(d int) time.Time {
	return time.Date(2026, 6, d, 12, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// Static
// ---------------------------------------------------------------------------

func TestStatic_Table(t *testing.T) {
	s := &Static{
		Location: "Sarajevo",
		Times:    []string{"04:30", "06:00", "12:30", "16:15", "19:45", "21:15"},
		Date:     []string{"15.06.2026"},
	}

	tbl, err := s.Table(context.Background(), "", day(15))
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.Location != "Sarajevo" || tbl.Slots[4].String() != "19:45" || tbl.Date[0] != "15.06.2026" {
		t.Errorf("unexpected table: %+v", tbl)
	}

	tbl, _ = s.Table(context.Background(), "Zenica", day(15))
	if tbl.Location != "Zenica" {
		t.Errorf("Location = %q, want override Zenica", tbl.Location)
	}
}

func TestStatic_Malformed(t *testing.T) {
	s := &Static{Times: []string{"04:30", "06:00"}}
	if _, err := s.Table(context.Background(), "", day(15)); !errors.Is(err, prayer.ErrMalformedTable) {
		t.Errorf("expected ErrMalformedTable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// File
// ---------------------------------------------------------------------------

func TestFile_Table(t *testing.T) {
	f := NewFile(writeFile(t, sampleYAML), nil)

	tests := []struct {
		name      string
		location  string
		day       int
		wantAksam string
		wantDate  string
	}{
		{"default times", "Sarajevo", 20, "19:45", "opći datum"},
		{"list override", "Sarajevo", 15, "19:46", "opći datum"},
		{"mapping override", "Sarajevo", 16, "19:46", "utorak, 16. juni 2026"},
		{"case insensitive", "mostar", 15, "19:41", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := f.Table(context.Background(), tt.location, day(tt.day))
			if err != nil {
				t.Fatalf("Table: %v", err)
			}
			if got := tbl.Slots[4].String(); got != tt.wantAksam {
				t.Errorf("Akšam = %s, want %s", got, tt.wantAksam)
			}
			var gotDate string
			if len(tbl.Date) > 0 {
				gotDate = tbl.Date[0]
			}
			if gotDate != tt.wantDate {
				t.Errorf("Date = %q, want %q", gotDate, tt.wantDate)
			}
			if tbl.Zone == nil || tbl.Zone.String() != "Europe/Sarajevo" {
				t.Errorf("Zone = %v, want Europe/Sarajevo", tbl.Zone)
			}
		})
	}
}

func TestFile_DayKeyUsesTableZone(t *testing.T) {
	f := NewFile(writeFile(t, sampleYAML), nil)

	// 22:30 UTC on the 14th is already the 15th in Sarajevo.
	tbl, err := f.Table(context.Background(), "Sarajevo", time.Date(2026, 6, 14, 22, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Slots[4].String(); got != "19:46" {
		t.Errorf("Akšam = %s, want the 2026-06-15 override", got)
	}
}

func TestFile_UnknownLocation(t *testing.T) {
	f := NewFile(writeFile(t, sampleYAML), nil)
	_, err := f.Table(context.Background(), "Tuzla", day(15))
	if !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestFile_SingleLocationDefault(t *testing.T) {
	f := NewFile(writeFile(t, `locations:
  Bihać:
    default: ["04:40", "06:10", "12:40", "16:25", "19:55", "21:25"]
`), time.FixedZone("CET", 3600))

	for _, name := range []string{"", "bihać", "Sarajevo"} {
		t.Run(name, func(t *testing.T) {
			tbl, err := f.Table(context.Background(), name, day(15))
			if err != nil {
				t.Fatal(err)
			}
			if tbl.Location != "Bihać" {
				t.Errorf("Location = %q", tbl.Location)
			}
			if tbl.Zone.String() != "CET" {
				t.Errorf("Zone = %v, want fallback CET", tbl.Zone)
			}
		})
	}
}

func TestFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "locations: [\n"},
		{"invalid zone", "zone: Mars/Olympus\nlocations: {}\n"},
		{"no times", "locations:\n  Sarajevo: {}\n"},
		{"malformed times", "locations:\n  Sarajevo:\n    default: [\"25:00\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile(writeFile(t, tt.content), nil)
			if _, err := f.Table(context.Background(), "Sarajevo", day(15)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		f := NewFile(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		if _, err := f.Table(context.Background(), "Sarajevo", day(15)); err == nil {
			t.Error("expected error")
		}
	})
}

func TestFile_InvalidateReloads(t *testing.T) {
	path := writeFile(t, sampleYAML)
	f := NewFile(path, nil)

	if _, err := f.Table(context.Background(), "Mostar", day(20)); err != nil {
		t.Fatal(err)
	}

	updated := `locations:
  Mostar:
    default: ["04:00", "05:30", "12:00", "15:45", "19:15", "20:45"]
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	// Cached until invalidated.
	tbl, _ := f.Table(context.Background(), "Mostar", day(20))
	if tbl.Slots[0].String() != "04:27" {
		t.Errorf("expected cached table, got Zora %s", tbl.Slots[0])
	}

	f.Invalidate()
	if !f.Stale() {
		t.Fatal("Stale should report true after Invalidate")
	}
	tbl, _ = f.Table(context.Background(), "Mostar", day(20))
	if tbl.Slots[0].String() != "04:00" {
		t.Errorf("expected reloaded table, got Zora %s", tbl.Slots[0])
	}
	if f.Stale() {
		t.Error("Stale should be cleared after reload")
	}
}

func TestFile_Locations(t *testing.T) {
	f := NewFile(writeFile(t, sampleYAML), nil)
	got, err := f.Locations()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Mostar" || got[1] != "Sarajevo" {
		t.Errorf("Locations = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Watch
// ---------------------------------------------------------------------------

func TestWatch_InvalidatesOnWrite(t *testing.T) {
	path := writeFile(t, sampleYAML)
	f := NewFile(path, nil)

	changed := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := Watch(ctx, path, func() {
		f.Invalidate()
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(sampleYAML+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	if !f.Stale() {
		t.Error("file provider should be stale after change")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "vaktija.yaml"), func() {}, nil)
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
