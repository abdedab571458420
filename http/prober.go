package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/pagescout"
)

// Ensure Prober implements pagescout.Prober at compile time.
var _ pagescout.Prober = (*Prober)(nil)

// Prober checks URL existence with HEAD requests.
type Prober struct {
	client    *http.Client
	userAgent string
}

// NewProber creates a new HEAD-based Prober.
func NewProber(opts ...Option) *Prober {
	o := newOptions(opts)
	return &Prober{
		client:    o.client,
		userAgent: o.userAgent,
	}
}

// Probe reports whether url answers HEAD with a 2xx status.
// A non-2xx status is a negative answer, not an error.
func (p *Prober) Probe(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return isSuccess(resp.StatusCode), nil
}
