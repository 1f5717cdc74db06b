package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// LocaleCookie stores the explicitly chosen UI language.
const LocaleCookie = "hl"

// LocaleResolver is the subset of the message bundle the locale middleware needs.
type LocaleResolver interface {
	IsSupported(lang string) bool
	Resolve(acceptLanguage string) string
}

// Locale picks the UI language from ?hl=, then the hl cookie, then
// Accept-Language. A supported ?hl= value is persisted in the cookie.
func Locale(resolver LocaleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("hl"))); q != "" && resolver.IsSupported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     LocaleCookie,
					Value:    q,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if lang == "" {
				if c, err := r.Cookie(LocaleCookie); err == nil && resolver.IsSupported(strings.ToLower(c.Value)) {
					lang = strings.ToLower(c.Value)
				}
			}
			if lang == "" {
				lang = resolver.Resolve(r.Header.Get("Accept-Language"))
			}

			w.Header().Add("Vary", "Accept-Language")
			w.Header().Set("Content-Language", lang)
			ctx := context.WithValue(r.Context(), localeContextKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the resolved language, or "" when the Locale middleware did not run.
func Lang(ctx context.Context) string {
	lang, _ := ctx.Value(localeContextKey).(string)
	return lang
}
