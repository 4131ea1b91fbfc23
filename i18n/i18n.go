// Package i18n localizes trlens's own user-facing CLI strings.
//
// It wraps gotext: translations live in embedded .po catalogs under
// locales/{lang}/LC_MESSAGES/trlens.po and the language is auto-detected
// from the standard gettext environment variables. Untranslated strings
// pass through unchanged.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "trlens"

var catalog *gotext.Locale

// Init loads the translation catalog for lang, or for the language detected
// from LANGUAGE/LC_ALL/LC_MESSAGES/LANG when lang is empty. Call once at
// startup, before any T call.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	catalog = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T translates a CLI string, returning it unchanged when no translation is
// available or Init was never called.
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N translates with plural forms.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// detectLanguage follows the GNU gettext environment lookup order. The
// first non-empty variable wins; "C" and "POSIX" mean no translation.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			// Colon-separated preference list; only the first entry matters.
			val, _, _ = strings.Cut(val, ":")
		}
		// Drop the encoding suffix: ru_RU.UTF-8 -> ru_RU.
		val, _, _ = strings.Cut(val, ".")
		switch val {
		case "", "C", "POSIX":
			continue
		}
		return val
	}
	return "en"
}
