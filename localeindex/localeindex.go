// Package localeindex builds an in-memory translation index from a locale
// file tree on disk.
//
// The expected layout is one subdirectory per locale code, each containing
// flat JSON documents mapping string keys to translated strings:
//
//	locale/
//	    en-US/
//	        common.json
//	        admin.json
//	    ru-RU/
//	        common.json
//
// All documents of one locale are shallow-merged into a single flat mapping.
// The index is rebuilt wholesale on every change; it is never patched.
package localeindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Index maps locale code -> translation key -> translated string.
type Index map[string]map[string]string

// Locales returns the locale codes present in the index, sorted.
func (ix Index) Locales() []string {
	codes := make([]string, 0, len(ix))
	for code := range ix {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup resolves key in the given locale. The second return value reports
// whether a translation was found.
func (ix Index) Lookup(locale, key string) (string, bool) {
	m, ok := ix[locale]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// Reason classifies why an index build failed outright.
type Reason string

const (
	// ReasonMissingDir: the locale root itself is absent or not a directory.
	ReasonMissingDir Reason = "missing-directory"
	// ReasonUnreadable: the locale root exists but cannot be enumerated.
	ReasonUnreadable Reason = "unreadable-entry"
)

// BuildError is returned when the locale root cannot be processed at all.
// Problems with individual documents are never a BuildError; they are logged
// through the warn hook and skipped.
type BuildError struct {
	Reason Reason
	Path   string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("locale index: %s: %s", e.Reason, e.Path)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Builder constructs translation indexes from a locale tree.
// The zero value is usable; Warn defaults to a no-op.
type Builder struct {
	// Warn receives a message for every skipped document.
	Warn func(format string, args ...any)
}

func (b *Builder) warnf(format string, args ...any) {
	if b.Warn != nil {
		b.Warn(format, args...)
	}
}

// Build reads the locale tree rooted at root into an Index.
//
// Each immediate subdirectory of root is a locale; within it every *.json
// file is parsed as a flat string->string object and merged into that
// locale's mapping. Files are merged in lexicographic filename order, so a
// key appearing in several documents takes the value from the
// lexicographically last one. Non-JSON files, nested directories, and
// non-string values are ignored. A document that cannot be read or parsed is
// skipped with a warning; only a missing or unreadable root is fatal.
func (b *Builder) Build(root string) (Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &BuildError{Reason: ReasonMissingDir, Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &BuildError{Reason: ReasonMissingDir, Path: root, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &BuildError{Reason: ReasonUnreadable, Path: root, Err: err}
	}

	ix := make(Index)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		ix[locale] = b.buildLocale(filepath.Join(root, locale))
	}
	return ix, nil
}

// buildLocale merges all JSON documents of one locale directory.
// os.ReadDir returns entries sorted by filename, which gives the
// deterministic last-wins merge order.
func (b *Builder) buildLocale(dir string) map[string]string {
	merged := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		b.warnf("cannot read locale directory %s: %v", dir, err)
		return merged
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := parseDocument(path)
		if err != nil {
			b.warnf("skipping %s: %v", path, err)
			continue
		}
		for k, v := range doc {
			merged[k] = v
		}
	}
	return merged
}

// parseDocument reads one key->string JSON document. One level of nesting
// is flattened with a dot separator ({"home": {"title": "..."}} becomes
// "home.title"); anything deeper, and values that are neither strings nor
// objects, are dropped rather than failing the whole document.
func parseDocument(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	doc := make(map[string]string, len(raw))
	for k, rv := range raw {
		var s string
		if err := json.Unmarshal(rv, &s); err == nil {
			doc[k] = s
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(rv, &nested); err != nil {
			continue
		}
		for nk, nv := range nested {
			if err := json.Unmarshal(nv, &s); err == nil {
				doc[k+"."+nk] = s
			}
		}
	}
	return doc, nil
}

// Build is the package-level shortcut using a silent Builder.
func Build(root string) (Index, error) {
	return (&Builder{}).Build(root)
}
