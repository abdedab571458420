package mock

import (
	"context"

	"github.com/fwojciec/pagescout"
)

var _ pagescout.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagescout.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ pagescout.Prober = (*Prober)(nil)

// Prober is a mock implementation of pagescout.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) (bool, error)
}

func (p *Prober) Probe(ctx context.Context, url string) (bool, error) {
	return p.ProbeFn(ctx, url)
}

var _ pagescout.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of pagescout.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
