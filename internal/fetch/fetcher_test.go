package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestHTTPSourceDecodesJSON(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"title":"Starter Box"}`)
	}))
	t.Cleanup(srv.Close)

	f := New(NewHTTPSource(srv.URL+"/data/", nil))
	var dst struct {
		Title string `json:"title"`
	}
	require.NoError(t, f.JSON(context.Background(), "items/a b.json", &dst))
	require.Equal(t, "Starter Box", dst.Title)
	require.Equal(t, "/data/items/a%20b.json", gotPath)
}

func TestHTTPSourceStatusBecomesFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such item", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := New(NewHTTPSource(srv.URL, srv.Client()))
	var dst map[string]any
	err := f.JSON(context.Background(), "items/.json", &dst)
	require.Error(t, err)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusNotFound, fe.Status)
	require.Equal(t, "items/.json", fe.Path)
	require.Equal(t, "HTTP 404", Detail(err))
	require.True(t, IsNotFound(err))
}

func TestHTTPSourceRejectsNonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
		_, _ = io.WriteString(w, `{"title":"not a catalog"}`)
	}))
	t.Cleanup(srv.Close)

	f := New(NewHTTPSource(srv.URL, srv.Client()))
	var dst map[string]any
	err := f.JSON(context.Background(), "boxes.json", &dst)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusMultipleChoices, fe.Status)
	require.Equal(t, "HTTP 300", Detail(err))
	require.Nil(t, dst)
}

func TestJSONParseFailureBecomesFetchError(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"broken.json":   {Data: []byte(`{"title":`)},
		"trailing.json": {Data: []byte(`{"title":"x"} junk`)},
	}
	f := New(NewDirSource(fsys))

	var dst map[string]any
	err := f.JSON(context.Background(), "broken.json", &dst)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Zero(t, fe.Status)
	require.NotEmpty(t, fe.Detail())

	err = f.JSON(context.Background(), "trailing.json", &dst)
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "unexpected data after JSON document", fe.Detail())
}

func TestDirSourceMissingAndInvalidPaths(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"boxes.json":      {Data: []byte(`[]`)},
		"items/sword.json": {Data: []byte(`{}`)},
	}
	f := New(NewDirSource(fsys))

	var dst any
	require.NoError(t, f.JSON(context.Background(), "boxes.json", &dst))
	require.NoError(t, f.JSON(context.Background(), "/items/sword.json", &dst))

	err := f.JSON(context.Background(), "items/.json", &dst)
	require.True(t, IsNotFound(err))

	err = f.JSON(context.Background(), "items", &dst)
	require.True(t, IsNotFound(err), "directories are not resources")

	err = f.JSON(context.Background(), "items/../../etc/passwd", &dst)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusBadRequest, fe.Status)
}

func TestFetcherTimeoutCancelsSlowSource(t *testing.T) {
	t.Parallel()

	slow := SourceFunc(func(ctx context.Context, name string) (io.ReadCloser, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	f := New(slow, WithTimeout(10*time.Millisecond))

	var dst any
	err := f.JSON(context.Background(), "boxes.json", &dst)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Contains(t, err.Error(), "fetch boxes.json")
}

func TestOpenStreamsRawBytes(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"images/box.png": {Data: []byte("png-bytes")}}
	f := New(NewDirSource(fsys))

	rc, err := f.Open(context.Background(), "images/box.png")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))

	_, err = f.Open(context.Background(), "images/missing.png")
	require.True(t, IsNotFound(err))
}

type fakeOpener struct {
	objects map[string]string
	bucket  string
}

func (o *fakeOpener) NewReader(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	o.bucket = bucket
	body, ok := o.objects[object]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (o *fakeOpener) Close() error { return nil }

func TestGCSSourceJoinsPrefixAndMapsMissingObjects(t *testing.T) {
	t.Parallel()

	opener := &fakeOpener{objects: map[string]string{"catalog/v1/boxes.json": `[{"title":"A"}]`}}
	src := newGCSSource("gacha-data", "/catalog/v1/", opener)
	f := New(src)

	var boxes []map[string]any
	require.NoError(t, f.JSON(context.Background(), "boxes.json", &boxes))
	require.Len(t, boxes, 1)
	require.Equal(t, "gacha-data", opener.bucket)

	err := f.JSON(context.Background(), "items/.json", &boxes)
	require.True(t, IsNotFound(err))
	require.NoError(t, src.Close())
}

func TestGCSOptions(t *testing.T) {
	t.Parallel()

	require.Empty(t, GCSOptions("  ", false))
	require.Len(t, GCSOptions("http://localhost:4443/storage/v1/", false), 1)
	require.Len(t, GCSOptions("", true), 1)
	require.Len(t, GCSOptions("http://localhost:4443/storage/v1/", true), 2)

	_, err := NewGCSSource(context.Background(), " ", "", option.WithoutAuthentication())
	require.Error(t, err)
}

func TestNewSourcePicksImplementationByScheme(t *testing.T) {
	t.Parallel()

	src, closeFn, err := NewSource(context.Background(), "https://cdn.example.com/data", nil)
	require.NoError(t, err)
	require.IsType(t, &HTTPSource{}, src)
	require.NoError(t, closeFn())

	src, _, err = NewSource(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	require.IsType(t, &DirSource{}, src)

	src, _, err = NewSource(context.Background(), "file:///srv/gacha", nil)
	require.NoError(t, err)
	require.IsType(t, &DirSource{}, src)

	src, closeFn, err = NewSource(context.Background(), "gs://gacha-data/catalog", nil, GCSOptions("http://localhost:4443/storage/v1/", true)...)
	require.NoError(t, err)
	require.IsType(t, &GCSSource{}, src)
	require.Equal(t, "catalog", src.(*GCSSource).prefix)
	require.NoError(t, closeFn())

	_, _, err = NewSource(context.Background(), "ftp://example.com/data", nil)
	require.Error(t, err)

	_, _, err = NewSource(context.Background(), "  ", nil)
	require.Error(t, err)
}
