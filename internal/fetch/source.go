package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"google.golang.org/api/option"
)

// Source opens named resources relative to a data base location.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// SourceFunc adapts ordinary functions to Source.
type SourceFunc func(ctx context.Context, name string) (io.ReadCloser, error)

// Open calls f.
func (f SourceFunc) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return f(ctx, name)
}

// NewSource picks a Source for base by scheme: http(s) URLs are fetched over
// HTTP, gs://bucket/prefix reads Cloud Storage objects, file:// URLs and plain
// paths read a local directory. gcsOpts only apply to gs:// bases. The
// returned close func releases clients.
func NewSource(ctx context.Context, base string, client *http.Client, gcsOpts ...option.ClientOption) (Source, func() error, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, nil, fmt.Errorf("fetch: empty data base")
	}
	noop := func() error { return nil }

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain path (or a Windows drive letter)
		return NewDirSource(os.DirFS(base)), noop, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPSource(base, client), noop, nil
	case "gs":
		src, err := NewGCSSource(ctx, u.Host, strings.TrimPrefix(u.Path, "/"), gcsOpts...)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case "file":
		dir := u.Path
		if dir == "" {
			dir = u.Opaque
		}
		return NewDirSource(os.DirFS(dir)), noop, nil
	default:
		return nil, nil, fmt.Errorf("fetch: unsupported data base scheme %q", u.Scheme)
	}
}
