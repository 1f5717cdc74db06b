package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// objectOpener is the subset of the storage client used by GCSSource.
type objectOpener interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	Close() error
}

type storageOpener struct {
	client *storage.Client
}

func (o storageOpener) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := o.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (o storageOpener) Close() error { return o.client.Close() }

// GCSSource reads catalog resources from a Cloud Storage bucket under an optional prefix.
type GCSSource struct {
	bucket string
	prefix string
	opener objectOpener
}

// GCSOptions builds client options for Cloud Storage. An endpoint points the
// client at an emulator; anonymous skips credentials for public buckets.
func GCSOptions(endpoint string, anonymous bool) []option.ClientOption {
	var opts []option.ClientOption
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if anonymous {
		opts = append(opts, option.WithoutAuthentication())
	}
	return opts
}

// NewGCSSource connects to Cloud Storage. Without options it uses application
// default credentials.
func NewGCSSource(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSSource, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("fetch: gcs bucket is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetch: create storage client: %w", err)
	}
	return newGCSSource(bucket, prefix, storageOpener{client: client}), nil
}

func newGCSSource(bucket, prefix string, opener objectOpener) *GCSSource {
	return &GCSSource{
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		opener: opener,
	}
}

// Open reads the object for name. storage.ErrObjectNotExist maps to a 404 fetch error.
func (s *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	object := strings.TrimLeft(name, "/")
	if s.prefix != "" {
		object = path.Join(s.prefix, object)
	}
	r, err := s.opener.NewReader(ctx, s.bucket, object)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the underlying storage client.
func (s *GCSSource) Close() error {
	if s == nil || s.opener == nil {
		return nil
	}
	return s.opener.Close()
}
