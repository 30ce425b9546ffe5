package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/nexocrm/nexo/internal/i18n"
)

type localeKey struct{}

// Locale resolves the Accept-Language header once per request and stashes
// the matched tag for error rendering.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := i18n.Match(r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), localeKey{}, tag)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleTag returns the matched locale, defaulting to English when the
// middleware did not run.
func LocaleTag(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok {
		return tag
	}

	return i18n.Match("")
}
