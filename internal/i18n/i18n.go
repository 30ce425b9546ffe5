package i18n

import (
	"golang.org/x/text/language"
)

// Supported response locales, first entry is the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

// Match resolves an Accept-Language header value to the best supported
// locale. An empty or unparseable header falls back to English.
func Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return supported[0]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return supported[0]
	}

	_, idx, _ := matcher.Match(tags...)

	return supported[idx]
}

// Message resolves a message key for the given locale. Unknown keys
// render as the key itself so a missing catalog entry is visible but
// never fatal.
func Message(tag language.Tag, key string) string {
	msgs, ok := catalog[tag.String()]
	if !ok {
		msgs = catalog[supported[0].String()]
	}

	if msg, ok := msgs[key]; ok {
		return msg
	}

	// Cross-locale fallback before giving up.
	if msg, ok := catalog[supported[0].String()][key]; ok {
		return msg
	}

	return key
}
