package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/fetch"
	"github.com/BinkaDev/gachabox/internal/httpserver"
)

// Fixtures is the catalog served by NewServer unless WithFiles replaces it.
var Fixtures = map[string]string{
	"boxes.json": `[
		{
			"title": "Starter Box",
			"imageFile": "starter.png",
			"tags": ["Untradeable", "FooBar"],
			"table": {"Level": 0, "Value": 10},
			"description": "A box for beginners.",
			"price": "500",
			"items": [
				{"id": 1001, "name": "Potion", "imgFile": "potion.png", "count": 3, "rate": "5%"},
				{"name": "Mystery"}
			]
		},
		{"tags": [], "items": []}
	]`,
	"items/1001.json": `{
		"title": "Red Potion",
		"table": {"Level": 0, "Value": 10, "Slots": 2},
		"compoundable": ["HP"],
		"attributes": {"AP": 12, "Foo": 3}
	}`,
	"images/potion.png": "PNG",
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(testing.TB, *httpserver.Config)

// WithFiles serves the catalog from files instead of Fixtures.
func WithFiles(files map[string]string) ServerOption {
	return func(t testing.TB, cfg *httpserver.Config) {
		applyFiles(t, cfg, files)
	}
}

// WithCatalog overrides the catalog state reader.
func WithCatalog(c httpserver.CatalogReader) ServerOption {
	return func(_ testing.TB, cfg *httpserver.Config) {
		cfg.Catalog = c
	}
}

// WithItemLoader overrides the item detail loader.
func WithItemLoader(l httpserver.ItemLoader) ServerOption {
	return func(_ testing.TB, cfg *httpserver.Config) {
		cfg.Items = l
	}
}

// MapFS builds an in-memory file system from name/body pairs.
func MapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func applyFiles(t testing.TB, cfg *httpserver.Config, files map[string]string) {
	t.Helper()

	fetcher := fetch.New(fetch.NewDirSource(MapFS(files)))
	svc := catalog.NewService(catalog.NewLoader(fetcher, "boxes.json"))
	_ = svc.Reload(context.Background())

	cfg.Catalog = svc
	cfg.Items = catalog.NewItemLoader(fetcher, "items")
	cfg.Images = fetcher
	cfg.ImagesDir = "images"
}

// NewServer constructs an httptest server running the catalog HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	var cfg httpserver.Config
	applyFiles(t, &cfg, Fixtures)
	for _, opt := range opts {
		opt(t, &cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
