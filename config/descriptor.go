// Package config loads the per-project descriptor file that activates and
// configures trlens for a project root.
//
// The descriptor is a JSON file named .trlens.json at the project root:
//
//	{
//	    "locale_path": "options/locale",
//	    "display_language": "ru-RU"
//	}
//
// locale_path is required and is resolved relative to the project root.
// display_language is optional; when absent, inline annotations are disabled
// and only hover annotations are produced.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DescriptorName is the fixed, project-root-relative descriptor file name.
const DescriptorName = ".trlens.json"

// ErrNoDescriptor reports that the project root has no descriptor file.
var ErrNoDescriptor = errors.New("no " + DescriptorName + " descriptor")

// Descriptor holds the parsed per-project configuration.
type Descriptor struct {
	// LocalePath is the locale tree directory, relative to the project root.
	LocalePath string `json:"locale_path"`
	// DisplayLanguage is the locale code used for inline annotations.
	// Empty means unset: hover-only behavior.
	DisplayLanguage string `json:"display_language,omitempty"`
}

// Path returns the descriptor file path for a project root.
func Path(rootDir string) string {
	return filepath.Join(rootDir, DescriptorName)
}

// Load reads and validates the descriptor of the given project root.
// Returns ErrNoDescriptor (wrapped) when the file does not exist; any other
// failure (unreadable file, malformed JSON, missing locale_path) is an error
// the caller should treat as "keep prior state".
func Load(rootDir string) (*Descriptor, error) {
	path := Path(rootDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", rootDir, ErrNoDescriptor)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if d.LocalePath == "" {
		return nil, fmt.Errorf("%s: missing required field locale_path", path)
	}
	return &d, nil
}

// AbsLocalePath resolves the locale tree path against the project root.
// An already-absolute locale_path is kept as is.
func (d *Descriptor) AbsLocalePath(rootDir string) string {
	if filepath.IsAbs(d.LocalePath) {
		return d.LocalePath
	}
	return filepath.Join(rootDir, d.LocalePath)
}
