package catalog

import (
	"context"
	"encoding/json"

	"github.com/BinkaDev/gachabox/internal/fetch"
)

// JSONFetcher reads a named resource and decodes it as JSON.
type JSONFetcher interface {
	JSON(ctx context.Context, name string, dst any) error
}

// Loader fetches the box-list resource.
type Loader struct {
	fetcher JSONFetcher
	path    string
}

// NewLoader returns a Loader reading the box list at path.
func NewLoader(fetcher JSONFetcher, path string) *Loader {
	return &Loader{fetcher: fetcher, path: path}
}

// LoadBoxes fetches and normalizes the box list. A single box object yields a
// one-element list and JSON null yields an empty one.
func (l *Loader) LoadBoxes(ctx context.Context) ([]Box, error) {
	var raw json.RawMessage
	if err := l.fetcher.JSON(ctx, l.path, &raw); err != nil {
		return nil, err
	}
	boxes, err := decodeBoxList(raw)
	if err != nil {
		return nil, &fetch.Error{Path: l.path, Message: err.Error(), Err: err}
	}
	return boxes, nil
}
