package pagescout

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch returns the body of a 2xx response for url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// Prober checks whether a URL exists without downloading it.
type Prober interface {
	// Probe reports whether url answers a HEAD request with a 2xx status.
	Probe(ctx context.Context, url string) (bool, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
