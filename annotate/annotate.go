// Package annotate turns scanned key references and a translation index
// into renderable hover and inline annotation sets.
//
// Planning is a pure function over already-loaded data: no I/O, no retries,
// byte-identical output for identical input.
package annotate

import (
	"strings"

	"github.com/minios-linux/trlens/langmeta"
	"github.com/minios-linux/trlens/localeindex"
	"github.com/minios-linux/trlens/scanner"
)

// Selection is a half-open [Start, End) byte range of the current cursor or
// selection. A collapsed cursor has Start == End.
type Selection struct {
	Start int
	End   int
}

// Touches reports whether the selection intersects the half-open range
// [start, end). Touching at a boundary counts, so a collapsed cursor sitting
// directly on a reference edge still selects it.
func (s Selection) Touches(start, end int) bool {
	return s.Start <= end && start <= s.End
}

// Hover is a multi-line annotation payload listing every locale's
// translation for a reference outside the current selection.
type Hover struct {
	Start int
	End   int
	Text  string
}

// Inline is a single-line replacement preview for a reference under the
// current selection, resolved in the preferred display locale.
type Inline struct {
	Start int
	End   int
	Label string
}

// InlineStyle is the rendering hint attached to every inline annotation set.
type InlineStyle struct {
	Color  string
	Border string
}

// DefaultInlineStyle matches an unobtrusive dimmed label next to the cursor.
var DefaultInlineStyle = InlineStyle{
	Color:  "rgba(153, 153, 153, 0.9)",
	Border: "1px dashed rgba(153, 153, 153, 0.5)",
}

// Result holds the two independent annotation sets for one document. Both
// slices preserve the left-to-right order of the scanned references.
type Result struct {
	Hovers  []Hover
	Inlines []Inline
	Style   InlineStyle
}

// Planner computes annotation sets for one workspace session.
type Planner struct {
	// PreferredLocale is the display locale for inline labels.
	// Empty disables inline annotations entirely.
	PreferredLocale string
	// ShowFlags prefixes hover locale lines with emoji flags.
	ShowFlags bool
}

// Plan partitions references by selection overlap and builds their payloads.
//
// A reference touched by the selection produces an inline annotation (the
// hover popup would obscure the cursor region, so it is suppressed there);
// every other reference produces a hover listing all locales. A key missing
// from a locale renders as the raw key itself, never as an error or a blank.
func (p *Planner) Plan(refs []scanner.Reference, ix localeindex.Index, sel Selection) Result {
	res := Result{
		Hovers:  []Hover{},
		Inlines: []Inline{},
		Style:   DefaultInlineStyle,
	}

	locales := ix.Locales()
	for _, ref := range refs {
		if !sel.Touches(ref.Start, ref.End) {
			res.Hovers = append(res.Hovers, Hover{
				Start: ref.Start,
				End:   ref.End,
				Text:  p.hoverText(ref.Key, ix, locales),
			})
			continue
		}
		if p.PreferredLocale == "" {
			continue
		}
		label, ok := ix.Lookup(p.PreferredLocale, ref.Key)
		if !ok {
			label = ref.Key
		}
		res.Inlines = append(res.Inlines, Inline{
			Start: ref.Start,
			End:   ref.End,
			Label: label,
		})
	}
	return res
}

// hoverText renders one line per locale, sorted by locale code.
func (p *Planner) hoverText(key string, ix localeindex.Index, locales []string) string {
	lines := make([]string, 0, len(locales))
	for _, code := range locales {
		text, ok := ix.Lookup(code, key)
		if !ok {
			text = key
		}
		label := code
		if p.ShowFlags {
			label = langmeta.Label(code)
		}
		lines = append(lines, label+": "+text)
	}
	return strings.Join(lines, "\n")
}
