package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitChange fails the test unless ch receives within a generous timeout.
func waitChange(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatchFiresOnWrite(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "en")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	ch := make(chan struct{}, 16)
	s, err := Watch(root, func() { ch <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(filepath.Join(sub, "common.json"), []byte(`{"a":"b"}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "write in existing subdirectory")
}

func TestWatchPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()

	ch := make(chan struct{}, 16)
	s, err := Watch(root, func() { ch <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer s.Close()

	newDir := filepath.Join(root, "de")
	if err := os.Mkdir(newDir, 0755); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "directory creation")

	// Give the watcher a moment to register the new directory, then write
	// inside it.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(newDir, "a.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "write inside newly created subdirectory")
}

func TestWatchMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Watch(filepath.Join(t.TempDir(), "absent"), func() {}); err == nil {
		t.Fatal("Watch on a missing root must fail")
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, ".trlens.json")
	other := filepath.Join(dir, "other.json")

	ch := make(chan struct{}, 16)
	s, err := WatchFile(target, func() { ch <- struct{}{} })
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer s.Close()

	// Events for sibling files are filtered out.
	if err := os.WriteFile(other, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatal("received change for an unrelated sibling file")
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(target, []byte(`{"locale_path":"l"}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "descriptor creation")
}

func TestWatchFileAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, ".trlens.json")
	if err := os.WriteFile(target, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	ch := make(chan struct{}, 16)
	s, err := WatchFile(target, func() { ch <- struct{}{} })
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer s.Close()

	tmp := filepath.Join(dir, ".trlens.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"locale_path":"l"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch, "atomic replace of the watched file")
}

func TestCloseStopsCallbacks(t *testing.T) {
	root := t.TempDir()

	ch := make(chan struct{}, 16)
	s, err := Watch(root, func() { ch <- struct{}{} })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "late.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatal("callback fired after Close")
	case <-time.After(300 * time.Millisecond):
	}
}
