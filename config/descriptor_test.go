package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDescriptor(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(Path(root), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("full descriptor", func(t *testing.T) {
		root := t.TempDir()
		writeDescriptor(t, root, `{"locale_path": "options/locale", "display_language": "ru-RU"}`)

		d, err := Load(root)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if d.LocalePath != "options/locale" {
			t.Fatalf("LocalePath = %q", d.LocalePath)
		}
		if d.DisplayLanguage != "ru-RU" {
			t.Fatalf("DisplayLanguage = %q", d.DisplayLanguage)
		}
	})

	t.Run("display_language is optional", func(t *testing.T) {
		root := t.TempDir()
		writeDescriptor(t, root, `{"locale_path": "locale"}`)

		d, err := Load(root)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if d.DisplayLanguage != "" {
			t.Fatalf("DisplayLanguage = %q, want empty", d.DisplayLanguage)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		if !errors.Is(err, ErrNoDescriptor) {
			t.Fatalf("err = %v, want ErrNoDescriptor", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		root := t.TempDir()
		writeDescriptor(t, root, `{"locale_path": `)

		if _, err := Load(root); err == nil || errors.Is(err, ErrNoDescriptor) {
			t.Fatalf("err = %v, want parse error", err)
		}
	})

	t.Run("missing locale_path", func(t *testing.T) {
		root := t.TempDir()
		writeDescriptor(t, root, `{"display_language": "de"}`)

		if _, err := Load(root); err == nil {
			t.Fatal("want error for missing locale_path")
		}
	})
}

func TestAbsLocalePath(t *testing.T) {
	t.Parallel()

	d := &Descriptor{LocalePath: "options/locale"}
	if got := d.AbsLocalePath("/proj"); got != filepath.Join("/proj", "options", "locale") {
		t.Fatalf("AbsLocalePath = %q", got)
	}

	abs := &Descriptor{LocalePath: "/elsewhere/locale"}
	if got := abs.AbsLocalePath("/proj"); got != "/elsewhere/locale" {
		t.Fatalf("AbsLocalePath(absolute) = %q", got)
	}
}
