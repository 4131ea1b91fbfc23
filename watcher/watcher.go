// Package watcher delivers filesystem change notifications for a locale
// tree and for the project descriptor file.
//
// Notifications are raw: one callback invocation per filesystem event, with
// no debouncing or de-duplication. Callers coalesce if they need to. When a
// watched path disappears the subscription simply stops firing; no error is
// surfaced, and cleanup happens when the owner closes the subscription.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Subscription is a handle to one running watch. Close releases it.
type Subscription struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Close stops the watch and releases its resources. Safe to call once per
// subscription; the callback is never invoked after Close returns.
func (s *Subscription) Close() error {
	err := s.fsw.Close()
	<-s.done
	return err
}

// Watch observes root and all nested directories for content changes and
// invokes onChange once per event. Directories created after the watch
// starts are picked up on the fly. onChange runs on the watcher goroutine.
func Watch(root string, onChange func()) (*Subscription, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addTree(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	s := &Subscription{fsw: fsw, done: make(chan struct{})}
	go s.run(func(ev fsnotify.Event) {
		// New subdirectories must be registered before their contents
		// produce events of their own.
		if ev.Op.Has(fsnotify.Create) {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				addTree(fsw, ev.Name)
			}
		}
		onChange()
	})
	return s, nil
}

// WatchFile observes a single file path and invokes onChange whenever it is
// created, rewritten, replaced, or removed. The parent directory is watched
// rather than the file itself so that editor-style atomic saves (write to a
// temp file, rename over the target) are still observed.
func WatchFile(path string, onChange func()) (*Subscription, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	s := &Subscription{fsw: fsw, done: make(chan struct{})}
	go s.run(func(ev fsnotify.Event) {
		if filepath.Clean(ev.Name) == target {
			onChange()
		}
	})
	return s, nil
}

// run pumps fsnotify events into handle until the watcher closes.
// Watcher errors are dropped: a vanished path is not a failure here.
func (s *Subscription) run(handle func(fsnotify.Event)) {
	defer close(s.done)
	for {
		select {
		case ev, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			handle(ev)
		case _, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// addTree registers dir and every nested directory with the watcher.
// Unreadable entries are skipped; only a missing root is an error.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	if err := fsw.Add(dir); err != nil {
		return err
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir {
			fsw.Add(path)
		}
		return nil
	})
	return nil
}
