// Package fetch retrieves the raw catalog document. The catalog is a
// static resource; fetching it is the page's single suspension point and
// is never retried automatically, so a failed fetch surfaces to the caller.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Default fetcher configuration constants.
const (
	defaultTimeout = 10 * time.Second

	// cacheBustParam defeats intermediary caching of the static JSON.
	cacheBustParam = "t"
)

// Fetcher retrieves the raw catalog bytes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFetcher fetches the catalog over HTTP with a cache-busting query
// parameter appended on every request.
type HTTPFetcher struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// HTTPOption applies a configuration option to the HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithNow sets the clock used for the cache-busting parameter.
func WithNow(now func() time.Time) HTTPOption {
	return func(f *HTTPFetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// NewHTTPFetcher creates an HTTP fetcher for the given catalog URL.
func NewHTTPFetcher(rawURL string, opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		url:    rawURL,
		client: &http.Client{Timeout: defaultTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs the catalog document once. No retry on failure.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return body, nil
}

// FileFetcher reads the catalog from a local path, for deployments that
// ship the dataset alongside the binary and for tests.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a file fetcher for the given path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Fetch reads the catalog file.
func (f *FileFetcher) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return data, nil
}
