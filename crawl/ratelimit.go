package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/pagescout"
	"golang.org/x/time/rate"
)

var _ pagescout.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so the spacing between requests to one
// site holds regardless of how many workers share the limiter.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests
// per second limit and a burst of 1. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// NewDelayLimiter creates a DomainLimiter that spaces requests to each
// domain at least delay apart. A zero delay disables limiting.
func NewDelayLimiter(delay time.Duration) *DomainLimiter {
	if delay <= 0 {
		return NewDomainLimiter(0)
	}
	return NewDomainLimiter(float64(time.Second) / float64(delay))
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
