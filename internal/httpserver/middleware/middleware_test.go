package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestHTMXMiddleware(t *testing.T) {
	base := HTMX()

	t.Run("flags htmx requests", func(t *testing.T) {
		var flagged bool
		handler := base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flagged = IsHTMXRequest(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/boxes/1", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if flagged {
			t.Fatalf("plain request flagged as htmx")
		}

		req.Header.Set("HX-Request", "TRUE")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if !flagged {
			t.Fatalf("expected HX-Request to flag the request")
		}
	})

	t.Run("RequireHTMX blocks non-htmx", func(t *testing.T) {
		handler := base(RequireHTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		req := httptest.NewRequest(http.MethodGet, "/boxes", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}

		req.Header.Set("HX-Request", "true")
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("Vary") != "HX-Request" {
			t.Fatalf("expected Vary: HX-Request, got %q", rr.Header().Get("Vary"))
		}
	})
}

type fakeResolver struct{}

func (fakeResolver) IsSupported(lang string) bool { return lang == "ko" || lang == "en" }

func (fakeResolver) Resolve(accept string) string {
	if strings.HasPrefix(accept, "en") {
		return "en"
	}
	return "ko"
}

func TestLocaleMiddleware(t *testing.T) {
	var got string
	handler := Locale(fakeResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r.Context())
	}))

	t.Run("query wins and sets cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?hl=EN", nil)
		req.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "ko"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if got != "en" {
			t.Fatalf("expected en, got %s", got)
		}
		if c := rr.Result().Cookies(); len(c) != 1 || c[0].Value != "en" {
			t.Fatalf("expected hl cookie, got %+v", c)
		}
		if rr.Header().Get("Content-Language") != "en" {
			t.Fatalf("expected Content-Language en, got %s", rr.Header().Get("Content-Language"))
		}
	})

	t.Run("cookie before accept-language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "ko"})
		req.Header.Set("Accept-Language", "en-US")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != "ko" {
			t.Fatalf("expected ko, got %s", got)
		}
	})

	t.Run("unsupported query falls through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?hl=fr", nil)
		req.Header.Set("Accept-Language", "en-US")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if got != "en" {
			t.Fatalf("expected en, got %s", got)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Fatalf("unsupported language must not be persisted")
		}
	})
}

func TestAssetsWithCache(t *testing.T) {
	handler := AssetsWithCache(fstest.MapFS{"app.css": {Data: []byte("body{}")}})

	req := httptest.NewRequest(http.MethodGet, "/app.css", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak etag, got %q", etag)
	}

	req = httptest.NewRequest(http.MethodGet, "/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
}

func TestNoStoreMiddleware(t *testing.T) {
	handler := NoStore()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control: %s", got)
	}
	if got := rr.Header().Get("Pragma"); got != "no-cache" {
		t.Fatalf("unexpected Pragma: %s", got)
	}
}
