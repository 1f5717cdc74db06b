package httpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BinkaDev/gachabox/internal/catalog"
	custommw "github.com/BinkaDev/gachabox/internal/httpserver/middleware"
	"github.com/BinkaDev/gachabox/internal/i18n"
	"github.com/BinkaDev/gachabox/internal/observability"
	"github.com/BinkaDev/gachabox/internal/view"
	"github.com/BinkaDev/gachabox/public"
)

// CatalogReader exposes the current catalog state.
type CatalogReader interface {
	Snapshot() catalog.Snapshot
}

// ItemLoader fetches item detail records.
type ItemLoader interface {
	LoadItem(ctx context.Context, summary catalog.BoxItemSummary) (catalog.ItemDetail, error)
}

// ImageSource streams image bytes.
type ImageSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Config holds runtime options for the catalog HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger    *zap.Logger
	Catalog   CatalogReader
	Items     ItemLoader
	Images    ImageSource
	ImagesDir string
	Bundle    *i18n.Bundle
	Labels    i18n.Labels
	Text      view.TextFormatter

	// TemplatesDir, when set, reparses templates from disk on every request.
	TemplatesDir string
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Catalog == nil || cfg.Items == nil || cfg.Images == nil {
		return nil, fmt.Errorf("httpserver: catalog, items and images are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := cfg.Bundle
	if bundle == nil {
		b, err := i18n.LoadDefault("ko")
		if err != nil {
			return nil, err
		}
		bundle = b
	}
	labels := cfg.Labels
	if labels.Tags == nil && labels.Stats == nil {
		labels = i18n.DefaultLabels()
	}

	tmpl, err := newTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}
	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	h := &handlers{
		catalog:   cfg.Catalog,
		items:     cfg.Items,
		images:    cfg.Images,
		imagesDir: cfg.ImagesDir,
		bundle:    bundle,
		renderer:  view.New(bundle.For(bundle.Fallback()), labels, view.WithTextFormatter(cfg.Text)),
		tmpl:      tmpl,
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))

	router.Get("/healthz", healthz)
	router.Handle("/public/static/*", http.StripPrefix("/public/static", custommw.AssetsWithCache(staticContent)))
	router.Get("/data/images/*", h.image)

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.Locale(bundle))

		r.Get("/", h.page)
		RegisterFragment(r, "/boxes", h.box)
		RegisterFragment(r, "/boxes/{box}/items/{row}", h.itemDetail)
		RegisterFragment(r, "/status", h.status)
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
