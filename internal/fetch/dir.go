package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// DirSource reads resources from a file system (usually os.DirFS of the data directory).
type DirSource struct {
	fsys fs.FS
}

// NewDirSource wraps fsys.
func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// Open opens name within the file system. Missing files map to a 404 fetch error.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimLeft(name, "/")
	if !fs.ValidPath(name) {
		return nil, &Error{Path: name, Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid path %q", name)}
	}
	f, err := s.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return f, nil
}
