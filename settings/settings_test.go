package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		s, err := LoadFrom(filepath.Join(t.TempDir(), "settings.yaml"))
		if err != nil {
			t.Fatalf("LoadFrom: %v", err)
		}
		if s != Default() {
			t.Fatalf("settings = %+v, want defaults", s)
		}
	})

	t.Run("partial file keeps defaults for omitted fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		if err := os.WriteFile(path, []byte("selection_coalesce_ms: 250\n"), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom: %v", err)
		}
		if s.SelectionCoalesceMS != 250 {
			t.Fatalf("SelectionCoalesceMS = %d, want 250", s.SelectionCoalesceMS)
		}
		if !s.Color || !s.ShowFlags {
			t.Fatalf("omitted fields lost their defaults: %+v", s)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		if err := os.WriteFile(path, []byte("color: [unclosed\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Fatal("want parse error")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := Settings{SelectionCoalesceMS: 50, Color: false, ShowFlags: true}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestCoalesceInterval(t *testing.T) {
	t.Parallel()

	if got := (Settings{SelectionCoalesceMS: 250}).CoalesceInterval(); got != 250*time.Millisecond {
		t.Fatalf("CoalesceInterval = %v", got)
	}
	if got := (Settings{SelectionCoalesceMS: -1}).CoalesceInterval(); got != DefaultCoalesceMS*time.Millisecond {
		t.Fatalf("negative value not clamped: %v", got)
	}
	if got := (Settings{}).CoalesceInterval(); got != DefaultCoalesceMS*time.Millisecond {
		t.Fatalf("zero value not clamped: %v", got)
	}
}
