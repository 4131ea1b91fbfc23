package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/minios-linux/trlens/annotate"
	"github.com/minios-linux/trlens/i18n"
	"github.com/minios-linux/trlens/session"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// Stdio protocol
//
// The host editor plugin spawns `trlens serve` and speaks newline-delimited
// JSON: one event object per stdin line, one annotation set per stdout line.
// Annotation sets replace the document's previous sets wholesale.
// ---------------------------------------------------------------------------

// inboundEvent is one editor event from stdin.
type inboundEvent struct {
	Event string `json:"event"`
	Root  string `json:"root,omitempty"`
	Path  string `json:"path,omitempty"`
	Text  string `json:"text,omitempty"`
	Start int    `json:"start,omitempty"`
	End   int    `json:"end,omitempty"`
}

// annotationSet is the outbound payload for one document.
type annotationSet struct {
	Document string       `json:"document"`
	Hovers   []hoverJSON  `json:"hovers"`
	Inlines  []inlineJSON `json:"inlines"`
	Style    *styleJSON   `json:"style,omitempty"`
}

type hoverJSON struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type inlineJSON struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

type styleJSON struct {
	Color  string `json:"color"`
	Border string `json:"border"`
}

func toAnnotationSet(doc string, res annotate.Result) annotationSet {
	set := annotationSet{
		Document: doc,
		Hovers:   make([]hoverJSON, 0, len(res.Hovers)),
		Inlines:  make([]inlineJSON, 0, len(res.Inlines)),
	}
	for _, h := range res.Hovers {
		set.Hovers = append(set.Hovers, hoverJSON{h.Start, h.End, h.Text})
	}
	for _, in := range res.Inlines {
		set.Inlines = append(set.Inlines, inlineJSON{in.Start, in.End, in.Label})
	}
	if len(set.Inlines) > 0 {
		set.Style = &styleJSON{Color: res.Style.Color, Border: res.Style.Border}
	}
	return set
}

// writeAnnotations emits one annotation set as a single JSON line.
func writeAnnotations(w io.Writer, doc string, res annotate.Result) error {
	return json.NewEncoder(w).Encode(toAnnotationSet(doc, res))
}

// stdioRenderer writes annotation sets to stdout, one JSON line each.
// Apply and Clear may race with shutdown teardown, hence the mutex.
type stdioRenderer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newStdioRenderer(w io.Writer) *stdioRenderer {
	return &stdioRenderer{enc: json.NewEncoder(w)}
}

func (r *stdioRenderer) Apply(doc string, res annotate.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enc.Encode(toAnnotationSet(doc, res))
}

func (r *stdioRenderer) Clear(doc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enc.Encode(annotationSet{
		Document: doc,
		Hovers:   []hoverJSON{},
		Inlines:  []inlineJSON{},
	})
}

// ---------------------------------------------------------------------------
// serve command
// ---------------------------------------------------------------------------

// maxEventLine bounds one stdin event line; document snapshots ride inside.
const maxEventLine = 16 << 20

func newServeCmd() *cobra.Command {
	var roots []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live annotation engine over stdio",
		Long: `Run the annotation engine, reading editor events as JSON lines from stdin
and writing annotation sets as JSON lines to stdout.

Events:

    {"event": "root_added", "root": "/abs/project"}
    {"event": "root_removed", "root": "/abs/project"}
    {"event": "document_focused", "path": "/abs/project/f.tmpl", "text": "..."}
    {"event": "document_changed", "path": "/abs/project/f.tmpl", "text": "..."}
    {"event": "selection_changed", "path": "/abs/project/f.tmpl", "start": 10, "end": 14}

Exits on stdin EOF or SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(roots, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringArrayVar(&roots, "root", nil, "project root to track at startup (repeatable)")
	return cmd
}

func runServe(roots []string, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := session.NewManager(newStdioRenderer(out), session.Options{
		CoalesceInterval: userSettings.CoalesceInterval(),
		ShowFlags:        userSettings.ShowFlags,
		Warn:             logWarning,
	})

	loopDone := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(loopDone)
	}()

	for _, root := range roots {
		m.AddRoot(root)
	}
	logInfo(i18n.T("Serving annotation events on stdio"))

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64<<10), maxEventLine)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev inboundEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			logWarning("dropping malformed event: %v", err)
			continue
		}
		dispatch(m, ev)

		if ctx.Err() != nil {
			break
		}
	}
	if err := sc.Err(); err != nil {
		logWarning("stdin: %v", err)
	}

	logInfo(i18n.T("Shutting down"))
	stop()
	<-loopDone
	return nil
}

// dispatch routes one editor event into the manager. Events missing their
// identity field are malformed and dropped; an empty root would otherwise
// resolve to the server's working directory.
func dispatch(m *session.Manager, ev inboundEvent) {
	switch ev.Event {
	case "root_added", "root_removed":
		if ev.Root == "" {
			logWarning("dropping %s event without a root", ev.Event)
			return
		}
	case "document_focused", "document_changed", "selection_changed":
		if ev.Path == "" {
			logWarning("dropping %s event without a path", ev.Event)
			return
		}
	default:
		logWarning("unknown event %q", ev.Event)
		return
	}

	switch ev.Event {
	case "root_added":
		m.AddRoot(ev.Root)
	case "root_removed":
		m.RemoveRoot(ev.Root)
	case "document_focused":
		m.FocusDocument(ev.Path, ev.Text)
	case "document_changed":
		m.ChangeText(ev.Path, ev.Text)
	case "selection_changed":
		m.ChangeSelection(ev.Path, ev.Start, ev.End)
	}
}
