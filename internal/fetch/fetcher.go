package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BinkaDev/gachabox/internal/observability"
)

// Fetcher performs single-attempt reads against a Source and decodes JSON.
type Fetcher struct {
	source  Source
	timeout time.Duration
	tracer  trace.Tracer
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each fetch. Zero means no timeout beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTracer overrides the tracer used for fetch spans.
func WithTracer(t trace.Tracer) Option {
	return func(f *Fetcher) {
		if t != nil {
			f.tracer = t
		}
	}
}

// New constructs a Fetcher reading from source.
func New(source Source, opts ...Option) *Fetcher {
	f := &Fetcher{
		source: source,
		tracer: observability.Tracer("fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// JSON reads name and decodes exactly one JSON document into dst.
// Any failure is returned as *Error.
func (f *Fetcher) JSON(ctx context.Context, name string, dst any) (err error) {
	ctx, span := f.tracer.Start(ctx, "fetch.json", trace.WithAttributes(attribute.String("fetch.path", name)))
	defer func() { endSpan(span, err) }()

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	rc, err := f.source.Open(ctx, name)
	if err != nil {
		return wrap(name, err)
	}
	defer rc.Close()

	dec := json.NewDecoder(rc)
	if err := dec.Decode(dst); err != nil {
		return wrap(name, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &Error{Path: name, Message: "unexpected data after JSON document", Err: err}
	}
	return nil
}

// Open streams the raw bytes of name. The caller closes the reader.
func (f *Fetcher) Open(ctx context.Context, name string) (_ io.ReadCloser, err error) {
	ctx, span := f.tracer.Start(ctx, "fetch.open", trace.WithAttributes(attribute.String("fetch.path", name)))
	defer func() { endSpan(span, err) }()

	rc, err := f.source.Open(ctx, name)
	if err != nil {
		return nil, wrap(name, err)
	}
	return rc, nil
}

func (f *Fetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Detail(err))
		var fe *Error
		if errors.As(err, &fe) && fe.Status != 0 {
			span.SetAttributes(attribute.Int("fetch.status", fe.Status))
		}
	}
	span.End()
}
