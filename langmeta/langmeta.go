// Package langmeta provides a locale display-metadata registry (native
// names and emoji flags) used to decorate hover annotations and CLI output.
package langmeta

import "strings"

// Meta describes locale display metadata. The zero value means "unknown
// locale"; consumers then fall back to showing the bare code.
type Meta struct {
	Name string
	Flag string
}

// registry contains canonical locale metadata. Regional variants not listed
// here fall back to their base language in Resolve.
var registry = map[string]Meta{
	"ar":    {Name: "العربية", Flag: "🇸🇦"},
	"bg":    {Name: "Български", Flag: "🇧🇬"},
	"cs":    {Name: "Čeština", Flag: "🇨🇿"},
	"da":    {Name: "Dansk", Flag: "🇩🇰"},
	"de":    {Name: "Deutsch", Flag: "🇩🇪"},
	"el":    {Name: "Ελληνικά", Flag: "🇬🇷"},
	"en":    {Name: "English", Flag: "🇺🇸"},
	"en-GB": {Name: "English (UK)", Flag: "🇬🇧"},
	"en-US": {Name: "English (US)", Flag: "🇺🇸"},
	"es":    {Name: "Español", Flag: "🇪🇸"},
	"fa":    {Name: "فارسی", Flag: "🇮🇷"},
	"fi":    {Name: "Suomi", Flag: "🇫🇮"},
	"fr":    {Name: "Français", Flag: "🇫🇷"},
	"he":    {Name: "עברית", Flag: "🇮🇱"},
	"hu":    {Name: "Magyar", Flag: "🇭🇺"},
	"id":    {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"it":    {Name: "Italiano", Flag: "🇮🇹"},
	"ja":    {Name: "日本語", Flag: "🇯🇵"},
	"ko":    {Name: "한국어", Flag: "🇰🇷"},
	"lv":    {Name: "Latviešu", Flag: "🇱🇻"},
	"ml":    {Name: "മലയാളം", Flag: "🇮🇳"},
	"nl":    {Name: "Nederlands", Flag: "🇳🇱"},
	"pl":    {Name: "Polski", Flag: "🇵🇱"},
	"pt":    {Name: "Português", Flag: "🇵🇹"},
	"pt-BR": {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"ru":    {Name: "Русский", Flag: "🇷🇺"},
	"sv":    {Name: "Svenska", Flag: "🇸🇪"},
	"tr":    {Name: "Türkçe", Flag: "🇹🇷"},
	"uk":    {Name: "Українська", Flag: "🇺🇦"},
	"vi":    {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"zh-CN": {Name: "简体中文", Flag: "🇨🇳"},
	"zh-HK": {Name: "繁體中文 (香港)", Flag: "🇭🇰"},
	"zh-TW": {Name: "繁體中文", Flag: "🇹🇼"},
}

// normalize maps pt_br / PT-br style spellings to the canonical pt-BR form.
func normalize(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	base, region, found := strings.Cut(code, "-")
	base = strings.ToLower(base)
	if !found {
		return base
	}
	return base + "-" + strings.ToUpper(region)
}

// Resolve returns display metadata for a locale code, accepting pt_BR,
// pt-br, and similar variant spellings and falling back to the base
// language for unlisted regional variants. Unknown codes yield a zero Meta.
func Resolve(code string) Meta {
	canonical := normalize(code)
	if m, ok := registry[canonical]; ok {
		return m
	}
	if base, _, found := strings.Cut(canonical, "-"); found {
		if m, ok := registry[base]; ok {
			return m
		}
	}
	return Meta{}
}

// Label renders the short display label for a locale code: the flag followed
// by the code, or just the code when no metadata is known.
func Label(code string) string {
	m := Resolve(code)
	if m.Flag == "" {
		return code
	}
	return m.Flag + " " + code
}
