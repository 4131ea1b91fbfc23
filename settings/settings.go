// Package settings provides per-user trlens settings.
//
// Settings are stored in the user config directory:
//
//	$XDG_CONFIG_HOME/trlens/settings.yaml  (default: ~/.config/trlens/)
//
// Example:
//
//	selection_coalesce_ms: 100
//	color: true
//	show_flags: true
//
// The file is optional; every field has a working default. Project-specific
// configuration lives in the per-root descriptor, not here.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName  = "trlens"
	fileName = "settings.yaml"
)

// DefaultCoalesceMS is the default selection-change coalescing window.
const DefaultCoalesceMS = 100

// Settings holds user-level tuning for the annotation engine and CLI.
type Settings struct {
	// SelectionCoalesceMS is the rate-limit window for selection-change
	// recomputation, in milliseconds.
	SelectionCoalesceMS int `yaml:"selection_coalesce_ms"`
	// Color enables ANSI colors in CLI output.
	Color bool `yaml:"color"`
	// ShowFlags prefixes hover locale lines with emoji flags.
	ShowFlags bool `yaml:"show_flags"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		SelectionCoalesceMS: DefaultCoalesceMS,
		Color:               true,
		ShowFlags:           true,
	}
}

// CoalesceInterval returns the selection coalescing window as a duration,
// clamping nonsensical values back to the default.
func (s Settings) CoalesceInterval() time.Duration {
	if s.SelectionCoalesceMS <= 0 {
		return DefaultCoalesceMS * time.Millisecond
	}
	return time.Duration(s.SelectionCoalesceMS) * time.Millisecond
}

// DefaultPath returns the settings file location in the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, dirName, fileName), nil
}

// Load reads settings from the default path. A missing file yields defaults
// without error; a malformed file is an error.
func Load() (Settings, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to an explicit path, creating parent directories.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
