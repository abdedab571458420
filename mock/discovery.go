package mock

import (
	"context"

	"github.com/fwojciec/pagescout"
)

var _ pagescout.LinkCrawler = (*LinkCrawler)(nil)

// LinkCrawler is a mock implementation of pagescout.LinkCrawler.
type LinkCrawler struct {
	CrawlFn func(ctx context.Context, baseURL string, known []string, remaining int) *pagescout.CrawlResult
}

func (c *LinkCrawler) Crawl(ctx context.Context, baseURL string, known []string, remaining int) *pagescout.CrawlResult {
	return c.CrawlFn(ctx, baseURL, known, remaining)
}

var _ pagescout.PathProber = (*PathProber)(nil)

// PathProber is a mock implementation of pagescout.PathProber.
type PathProber struct {
	ProbePathsFn func(ctx context.Context, baseURL string) []*pagescout.DiscoveredPage
}

func (p *PathProber) ProbePaths(ctx context.Context, baseURL string) []*pagescout.DiscoveredPage {
	return p.ProbePathsFn(ctx, baseURL)
}

var _ pagescout.PageDiscoverer = (*PageDiscoverer)(nil)

// PageDiscoverer is a mock implementation of pagescout.PageDiscoverer.
type PageDiscoverer struct {
	DiscoverPagesFn func(ctx context.Context, baseURL string, maxPages int) *pagescout.Result
}

func (d *PageDiscoverer) DiscoverPages(ctx context.Context, baseURL string, maxPages int) *pagescout.Result {
	return d.DiscoverPagesFn(ctx, baseURL, maxPages)
}
