package scanner

import (
	"reflect"
	"strings"
	"testing"
)

func TestScanSingleReference(t *testing.T) {
	t.Parallel()

	text := `ctx.Tr("hello.world")`
	refs := Scan(text)
	if len(refs) != 1 {
		t.Fatalf("Scan returned %d references, want 1", len(refs))
	}

	ref := refs[0]
	if ref.Key != "hello.world" {
		t.Fatalf("Key = %q, want %q", ref.Key, "hello.world")
	}
	if text[ref.Start:ref.End] != "hello.world" {
		t.Fatalf("range [%d,%d) covers %q, want the bare key", ref.Start, ref.End, text[ref.Start:ref.End])
	}
}

func TestScanOrderingAndCount(t *testing.T) {
	t.Parallel()

	text := `{{ctx.Tr("repo.name")}} and {{ctx.Tr("repo.owner")}}
	<span>{{ctx.Tr("home.title")}}</span>`

	refs := Scan(text)
	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = r.Key
	}
	want := []string{"repo.name", "repo.owner", "home.title"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	for i := 1; i < len(refs); i++ {
		if refs[i].Start < refs[i-1].End {
			t.Fatalf("references overlap or are out of order: %v", refs)
		}
	}
}

func TestScanNoMatches(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"plain text",
		`ctx.Tr(variable)`,
		`ctx.Tr('single.quotes')`,
		`other.Tr("key")`,
	} {
		if refs := Scan(text); len(refs) != 0 {
			t.Fatalf("Scan(%q) = %v, want empty", text, refs)
		}
	}
}

func TestScanEmptyKey(t *testing.T) {
	t.Parallel()

	refs := Scan(`ctx.Tr("")`)
	if len(refs) != 1 || refs[0].Key != "" {
		t.Fatalf("Scan empty key = %v", refs)
	}
	if refs[0].Start != refs[0].End {
		t.Fatalf("empty key must have an empty range, got [%d,%d)", refs[0].Start, refs[0].End)
	}
}

func TestScanEscapedQuoteNotMatched(t *testing.T) {
	t.Parallel()

	// The pattern stops at the first quote, so an escaped quote ends the key.
	refs := Scan(`ctx.Tr("a\"b")`)
	if len(refs) != 0 {
		t.Fatalf("Scan = %v, want no match for escaped-quote key", refs)
	}
}

func TestScanLargeDocument(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	const n = 5000
	for i := 0; i < n; i++ {
		sb.WriteString(`<td>{{ctx.Tr("row.cell")}}</td>` + "\n")
	}

	refs := Scan(sb.String())
	if len(refs) != n {
		t.Fatalf("Scan returned %d references, want %d", len(refs), n)
	}
}
