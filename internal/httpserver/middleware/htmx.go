package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	htmxContextKey   contextKey = "htmx.request"
	localeContextKey contextKey = "locale.lang"
)

// HTMX flags requests carrying HX-Request: true so handlers can tell fragment
// swaps from full navigations.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("HX-Request"), "true") {
				r = r.WithContext(context.WithValue(r.Context(), htmxContextKey, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsHTMXRequest reports whether HTMX flagged the request.
func IsHTMXRequest(ctx context.Context) bool {
	flagged, _ := ctx.Value(htmxContextKey).(bool)
	return flagged
}

// RequireHTMX answers 404 to direct navigation of fragment routes.
func RequireHTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				http.NotFound(w, r)
				return
			}
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r)
		})
	}
}
