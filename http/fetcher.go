// Package http provides net/http implementations of the pagescout fetching
// interfaces: page fetching, HEAD existence probes and sitemap discovery.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/pagescout"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the client-level upper bound for a single request.
// Callers normally apply tighter per-request timeouts through the context.
const DefaultFetchTimeout = 15 * time.Second

// maxPageBytes caps how much of a page body is read.
const maxPageBytes = 10 << 20

// Ensure Fetcher implements pagescout.Fetcher at compile time.
var _ pagescout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
// Bodies are decoded to UTF-8 based on the Content-Type header and the
// document's own charset declaration.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher or Prober.
type Option func(*options)

type options struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// WithTimeout sets the client-level timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithClient sets the HTTP client. The client's own Timeout is replaced by
// the configured timeout.
func WithClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:   DefaultFetchTimeout,
		userAgent: pagescout.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	client := &http.Client{}
	if o.client != nil {
		c := *o.client
		client = &c
	}
	client.Timeout = o.timeout
	o.client = client
	return o
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{
		client:    o.client,
		userAgent: o.userAgent,
	}
}

// Fetch retrieves the HTML content from the given URL.
// Non-2xx responses are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
