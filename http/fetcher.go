// Package http provides an HTTP-based implementation of docharvest.Fetcher
// for documentation sites that don't require JavaScript rendering, and a
// sitemap-based URL source.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docharvest"
)

// DefaultFetchTimeout is the default timeout for a single HTTP request.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the extractor to documentation servers.
const DefaultUserAgent = "docharvest/1.0 (+https://github.com/fwojciec/docharvest)"

// Ensure Fetcher implements docharvest.Fetcher at compile time.
var _ docharvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTransport sets the round tripper used by the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout
	return f
}

// Fetch retrieves the HTML content from the given URL.
// Any status outside 2xx is returned as a *docharvest.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docharvest.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "invalid URL %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &docharvest.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &docharvest.Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

// Close releases resources. For HTTP fetcher this only drops idle
// connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
