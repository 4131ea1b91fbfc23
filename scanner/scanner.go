// Package scanner finds translation-lookup call sites in document text.
//
// The scan is a flat lexical match for the fixed pattern ctx.Tr("<key>");
// it does not parse source syntax, so the pattern matching inside comments
// or unrelated string literals is reported too. That is an accepted
// limitation of the approach, not something callers should work around.
package scanner

import "regexp"

// Reference is one occurrence of a translation-key lookup call site.
// Start and End are byte offsets into the scanned text forming a half-open
// range [Start, End) that covers exactly the key characters between the
// quotes, excluding the call syntax and the quotes themselves.
type Reference struct {
	Key   string
	Start int
	End   int
}

// callSite matches ctx.Tr("<key>") where <key> is any run of characters
// without a double quote. Keys containing escaped quotes are not matched.
var callSite = regexp.MustCompile(`ctx\.Tr\("([^"]*)"\)`)

// Scan returns every call-site reference in text, non-overlapping, in
// left-to-right order. Documents with no matches yield an empty slice.
func Scan(text string) []Reference {
	matches := callSite.FindAllStringSubmatchIndex(text, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		// m[2], m[3] bound the first capture group: the key literal.
		start, end := m[2], m[3]
		refs = append(refs, Reference{
			Key:   text[start:end],
			Start: start,
			End:   end,
		})
	}
	return refs
}
