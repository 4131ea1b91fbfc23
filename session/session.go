// Package session owns the per-project-root annotation lifecycle.
//
// A Manager tracks one independent session record per project root. Each
// session holds its own descriptor config, translation index, watcher
// subscriptions, and active-document state; sessions never share mutable
// state. All mutation happens on a single event-loop goroutine (Run);
// editor callbacks, filesystem watchers, and coalescing timers only enqueue
// events. Recomputation is idempotent, so duplicate or coalesced triggers
// are harmless.
package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minios-linux/trlens/annotate"
	"github.com/minios-linux/trlens/config"
	"github.com/minios-linux/trlens/localeindex"
	"github.com/minios-linux/trlens/scanner"
	"github.com/minios-linux/trlens/watcher"
)

// Renderer is the downstream host-editor surface. Both annotation sets are
// replaced wholesale on every Apply; Clear removes everything for a
// document. Implementations are called from the manager's event loop and
// must not call back into the Manager synchronously.
type Renderer interface {
	Apply(doc string, res annotate.Result)
	Clear(doc string)
}

// Options tunes a Manager.
type Options struct {
	// CoalesceInterval rate-limits selection-change recomputation.
	// Zero means the 100ms default.
	CoalesceInterval time.Duration
	// ShowFlags decorates hover locale lines with emoji flags.
	ShowFlags bool
	// Warn receives non-fatal diagnostics. Nil means silent.
	Warn func(format string, args ...any)
}

const defaultCoalesce = 100 * time.Millisecond

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

type addRootEvent struct{ root string }
type removeRootEvent struct{ root string }
type focusEvent struct{ path, text string }
type textEvent struct{ path, text string }
type selectionEvent struct {
	path       string
	start, end int
}
type localeChangedEvent struct{ root string }
type descriptorChangedEvent struct{ root string }
type selectionFlushEvent struct{ root string }
type syncEvent struct{ done chan struct{} }

// ---------------------------------------------------------------------------
// Session record
// ---------------------------------------------------------------------------

// document is the session's view of the focused editor document.
type document struct {
	path string
	text string
	refs []scanner.Reference
	sel  annotate.Selection
}

// session is one project root's state. Only the manager loop touches it.
type session struct {
	root   string
	active bool

	cfg     *config.Descriptor
	index   localeindex.Index
	planner annotate.Planner
	doc     *document

	descriptorSub *watcher.Subscription
	localeSub     *watcher.Subscription

	// Selection coalescing: windowOpen marks a running rate-limit window,
	// pendingSel holds the newest selection received inside it.
	windowOpen bool
	pendingSel *annotate.Selection
	timer      *time.Timer
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager is the top-level orchestrator wiring editor and filesystem events
// to recomputation. Create with NewManager, then call Run on its own
// goroutine before delivering events.
type Manager struct {
	sink Renderer
	opts Options

	events chan any
	done   chan struct{}

	sessions map[string]*session

	// Last focused document, remembered even when no session claims it yet
	// so that a root activated later can adopt it.
	focused *document
}

// NewManager creates a Manager rendering through sink.
func NewManager(sink Renderer, opts Options) *Manager {
	if opts.CoalesceInterval <= 0 {
		opts.CoalesceInterval = defaultCoalesce
	}
	return &Manager{
		sink:     sink,
		opts:     opts,
		events:   make(chan any, 256),
		done:     make(chan struct{}),
		sessions: make(map[string]*session),
	}
}

func (m *Manager) warnf(format string, args ...any) {
	if m.opts.Warn != nil {
		m.opts.Warn(format, args...)
	}
}

// post enqueues an event unless the loop has already shut down.
func (m *Manager) post(e any) {
	select {
	case m.events <- e:
	case <-m.done:
	}
}

// postDrop enqueues a filesystem trigger, dropping it when the queue is
// full. Watcher callbacks must never block: the loop may be closing their
// subscription at that very moment, and a dropped trigger is harmless
// because the queued backlog already forces the same rebuild.
func (m *Manager) postDrop(e any) {
	select {
	case m.events <- e:
	case <-m.done:
	default:
	}
}

// AddRoot starts tracking a project root. The session becomes active as
// soon as the root's descriptor file exists and parses, now or later.
func (m *Manager) AddRoot(root string) { m.post(addRootEvent{root}) }

// RemoveRoot stops tracking a project root, releasing its subscriptions and
// clearing its rendered annotations.
func (m *Manager) RemoveRoot(root string) { m.post(removeRootEvent{root}) }

// FocusDocument reports that the editor focused a document with the given
// full text snapshot.
func (m *Manager) FocusDocument(path, text string) { m.post(focusEvent{path, text}) }

// ChangeText reports a new full text snapshot for a document.
func (m *Manager) ChangeText(path, text string) { m.post(textEvent{path, text}) }

// ChangeSelection reports a new cursor/selection byte range for a document.
func (m *Manager) ChangeSelection(path string, start, end int) {
	m.post(selectionEvent{path, start, end})
}

// Run processes events until ctx is cancelled, then tears every session
// down. It must be running before events are delivered.
func (m *Manager) Run(ctx context.Context) {
	defer func() {
		close(m.done)
		for root := range m.sessions {
			m.teardown(root)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// Drain whatever was enqueued before shutdown so that editor
			// events delivered just before EOF still render.
			for {
				select {
				case e := <-m.events:
					m.handle(e)
				default:
					return
				}
			}
		case e := <-m.events:
			m.handle(e)
		}
	}
}

func (m *Manager) handle(e any) {
	switch ev := e.(type) {
	case addRootEvent:
		m.addRoot(ev.root)
	case removeRootEvent:
		m.teardown(cleanRoot(ev.root))
	case focusEvent:
		m.focusDocument(ev.path, ev.text)
	case textEvent:
		m.changeText(ev.path, ev.text)
	case selectionEvent:
		m.changeSelection(ev.path, annotate.Selection{Start: ev.start, End: ev.end})
	case localeChangedEvent:
		m.localeChanged(ev.root)
	case descriptorChangedEvent:
		m.descriptorChanged(ev.root)
	case selectionFlushEvent:
		m.flushSelection(ev.root)
	case syncEvent:
		close(ev.done)
	}
}

// ---------------------------------------------------------------------------
// Root lifecycle
// ---------------------------------------------------------------------------

func cleanRoot(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return filepath.Clean(root)
}

func (m *Manager) addRoot(root string) {
	root = cleanRoot(root)
	if _, ok := m.sessions[root]; ok {
		return
	}

	s := &session{root: root}
	m.sessions[root] = s

	// The descriptor path is watched for the whole lifetime of the root so
	// that a descriptor created later still activates the session.
	sub, err := watcher.WatchFile(config.Path(root), func() {
		m.postDrop(descriptorChangedEvent{root})
	})
	if err != nil {
		m.warnf("cannot watch descriptor of %s: %v", root, err)
	} else {
		s.descriptorSub = sub
	}

	m.activate(s)
}

// activate tries to bring a session to the Active state: parse descriptor,
// build index, start the locale watcher, and plan for an already-focused
// document under this root. Failures leave the session Inactive (or, on
// re-activation, untouched) and are only logged.
func (m *Manager) activate(s *session) {
	cfg, err := config.Load(s.root)
	if err != nil {
		if !errors.Is(err, config.ErrNoDescriptor) {
			m.warnf("descriptor of %s: %v", s.root, err)
		}
		return
	}

	localeRoot := cfg.AbsLocalePath(s.root)
	index, err := m.buildIndex(localeRoot)
	if err != nil {
		m.warnf("building index for %s: %v", s.root, err)
		index = localeindex.Index{}
	}

	if s.localeSub == nil {
		root := s.root
		sub, err := watcher.Watch(localeRoot, func() {
			m.postDrop(localeChangedEvent{root})
		})
		if err != nil {
			m.warnf("cannot watch locale tree %s: %v", localeRoot, err)
		} else {
			s.localeSub = sub
		}
	}

	s.cfg = cfg
	s.index = index
	s.planner = annotate.Planner{
		PreferredLocale: cfg.DisplayLanguage,
		ShowFlags:       m.opts.ShowFlags,
	}
	s.active = true

	if m.focused != nil && s.doc == nil && m.owner(m.focused.path) == s {
		m.adopt(s, m.focused)
	}
	m.replan(s)
}

// deactivate releases the locale subscription and clears rendered
// annotations, but keeps the descriptor watch so the root can re-activate.
func (m *Manager) deactivate(s *session) {
	if !s.active {
		return
	}
	s.active = false
	if s.localeSub != nil {
		s.localeSub.Close()
		s.localeSub = nil
	}
	s.stopCoalescer()
	if s.doc != nil {
		m.sink.Clear(s.doc.path)
	}
	s.cfg = nil
	s.index = nil
	s.doc = nil
}

// teardown fully discards a root: Active or not, all of its subscriptions
// are released and its annotations cleared.
func (m *Manager) teardown(root string) {
	s, ok := m.sessions[root]
	if !ok {
		return
	}
	m.deactivate(s)
	if s.descriptorSub != nil {
		s.descriptorSub.Close()
		s.descriptorSub = nil
	}
	delete(m.sessions, root)
}

func (m *Manager) buildIndex(localeRoot string) (localeindex.Index, error) {
	b := &localeindex.Builder{Warn: m.opts.Warn}
	return b.Build(localeRoot)
}

// ---------------------------------------------------------------------------
// Document resolution
// ---------------------------------------------------------------------------

// owner resolves a document path to the active session with the longest
// matching root prefix, or nil when the document belongs to no active root.
func (m *Manager) owner(path string) *session {
	path = filepath.Clean(path)
	var best *session
	for _, s := range m.sessions {
		if !s.active || !within(s.root, path) {
			continue
		}
		if best == nil || len(s.root) > len(best.root) {
			best = s
		}
	}
	return best
}

// within reports whether path is root or lies underneath it.
func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}

// adopt hands doc to s for rendering. With nested roots another session may
// still hold the same document and must let go, or its next filesystem event
// would re-render the document with that root's configuration.
func (m *Manager) adopt(s *session, doc *document) {
	for _, other := range m.sessions {
		if other != s && other.doc != nil && other.doc.path == doc.path {
			other.doc = nil
			other.stopCoalescer()
		}
	}
	s.doc = doc
}

// ---------------------------------------------------------------------------
// Editor events
// ---------------------------------------------------------------------------

func (m *Manager) focusDocument(path, text string) {
	doc := &document{path: filepath.Clean(path), text: text, refs: scanner.Scan(text)}
	m.focused = doc

	s := m.owner(doc.path)
	if s == nil {
		return
	}
	m.adopt(s, doc)
	m.replan(s)
}

func (m *Manager) changeText(path, text string) {
	path = filepath.Clean(path)
	if m.focused != nil && m.focused.path == path {
		m.focused.text = text
		m.focused.refs = scanner.Scan(text)
	}

	s := m.owner(path)
	if s == nil || s.doc == nil || s.doc.path != path {
		return
	}
	if s.doc != m.focused {
		s.doc.text = text
		s.doc.refs = scanner.Scan(text)
	}
	m.replan(s)
}

// changeSelection records the new selection and replans, rate-limited by a
// leading-plus-trailing-edge window: the first event in a quiet period
// replans immediately and opens the window; later events inside the window
// are coalesced into a single trailing replan when the timer fires.
func (m *Manager) changeSelection(path string, sel annotate.Selection) {
	path = filepath.Clean(path)
	if m.focused != nil && m.focused.path == path {
		m.focused.sel = sel
	}

	s := m.owner(path)
	if s == nil || s.doc == nil || s.doc.path != path {
		return
	}

	if s.windowOpen {
		s.pendingSel = &sel
		return
	}
	s.doc.sel = sel
	m.replan(s)
	m.openWindow(s)
}

func (m *Manager) openWindow(s *session) {
	s.windowOpen = true
	root := s.root
	s.timer = time.AfterFunc(m.opts.CoalesceInterval, func() {
		m.post(selectionFlushEvent{root})
	})
}

func (m *Manager) flushSelection(root string) {
	s, ok := m.sessions[root]
	if !ok || !s.windowOpen {
		return
	}
	s.windowOpen = false
	s.timer = nil
	if s.pendingSel == nil {
		return
	}
	sel := *s.pendingSel
	s.pendingSel = nil
	if !s.active || s.doc == nil {
		return
	}
	s.doc.sel = sel
	m.replan(s)
	m.openWindow(s)
}

func (s *session) stopCoalescer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.windowOpen = false
	s.pendingSel = nil
}

// ---------------------------------------------------------------------------
// Filesystem events
// ---------------------------------------------------------------------------

func (m *Manager) localeChanged(root string) {
	s, ok := m.sessions[root]
	if !ok || !s.active {
		return
	}
	index, err := m.buildIndex(s.cfg.AbsLocalePath(s.root))
	if err != nil {
		// Locale root vanished mid-flight; keep serving the last good index.
		m.warnf("rebuilding index for %s: %v", s.root, err)
		return
	}
	s.index = index
	m.replan(s)
}

func (m *Manager) descriptorChanged(root string) {
	s, ok := m.sessions[root]
	if !ok {
		return
	}

	_, err := config.Load(s.root)
	switch {
	case errors.Is(err, config.ErrNoDescriptor):
		m.deactivate(s)
	case err != nil:
		// Malformed descriptor: keep the session's prior state.
		m.warnf("descriptor of %s: %v", s.root, err)
	case !s.active:
		m.activate(s)
	default:
		// Re-parse, rebuild, re-plan. The locale root may have moved, so the
		// locale watch is restarted against the new path. The active
		// document reference survives the transition.
		if s.localeSub != nil {
			s.localeSub.Close()
			s.localeSub = nil
		}
		s.active = false
		m.activate(s)
	}
}

// ---------------------------------------------------------------------------
// Recomputation
// ---------------------------------------------------------------------------

func (m *Manager) replan(s *session) {
	if !s.active || s.doc == nil {
		return
	}
	res := s.planner.Plan(s.doc.refs, s.index, s.doc.sel)
	m.sink.Apply(s.doc.path, res)
}
