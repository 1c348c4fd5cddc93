// Package i18n resolves the few human-readable strings the stats engine
// produces itself.
package i18n

import "strings"

// Translator looks a message key up for one language. Params replace
// {name} placeholders.
type Translator func(key string, params map[string]string) string

const (
	KeyNotApplicable = "stats.notApplicable"

	DefaultLanguage = "en"
)

var catalog = map[string]map[string]string{
	"en": {
		KeyNotApplicable: "N/A",
	},
	"ja": {
		KeyNotApplicable: "該当なし",
	},
}

// Supported reports whether lang has its own catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// For returns the Translator for lang. Missing keys fall back to English,
// then to the key itself.
func For(lang string) Translator {
	messages, ok := catalog[lang]
	if !ok {
		messages = catalog[DefaultLanguage]
	}
	return func(key string, params map[string]string) string {
		msg, ok := messages[key]
		if !ok {
			if msg, ok = catalog[DefaultLanguage][key]; !ok {
				msg = key
			}
		}
		for name, value := range params {
			msg = strings.ReplaceAll(msg, "{"+name+"}", value)
		}
		return msg
	}
}
