package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPSource reads resources below a base URL.
type HTTPSource struct {
	baseURL string
	http    *http.Client
}

// NewHTTPSource constructs an HTTP source. A nil client uses a client without
// a timeout; deadlines come from the request context.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    client,
	}
}

// Open issues a single GET for name. Any status outside 2xx becomes an *Error.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	endpoint := s.endpoint(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, image/*;q=0.9, */*;q=0.8")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(name, resp.StatusCode, drainError(resp.Body))
	}
	return resp.Body, nil
}

// endpoint escapes each path segment of name so ids with reserved characters stay in one segment.
func (s *HTTPSource) endpoint(name string) string {
	segments := strings.Split(strings.TrimLeft(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
