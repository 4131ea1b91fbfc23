package langmeta

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want Meta
	}{
		{name: "exact match", code: "ru", want: Meta{Name: "Русский", Flag: "🇷🇺"}},
		{name: "regional exact", code: "pt-BR", want: Meta{Name: "Português (Brasil)", Flag: "🇧🇷"}},
		{name: "underscore spelling", code: "pt_BR", want: Meta{Name: "Português (Brasil)", Flag: "🇧🇷"}},
		{name: "case normalization", code: "PT-br", want: Meta{Name: "Português (Brasil)", Flag: "🇧🇷"}},
		{name: "unlisted variant falls back to base", code: "de-AT", want: Meta{Name: "Deutsch", Flag: "🇩🇪"}},
		{name: "unknown code", code: "tlh", want: Meta{}},
		{name: "empty code", code: "", want: Meta{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.code); got != tc.want {
				t.Fatalf("Resolve(%q) = %+v, want %+v", tc.code, got, tc.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	if got := Label("fr"); got != "🇫🇷 fr" {
		t.Fatalf("Label(fr) = %q", got)
	}
	if got := Label("x-unknown"); got != "x-unknown" {
		t.Fatalf("Label(unknown) = %q, want bare code", got)
	}
}
