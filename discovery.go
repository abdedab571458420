package pagescout

import "context"

// CrawlResult is the outcome of an internal-link crawl.
type CrawlResult struct {
	// Pages are newly discovered pages in discovery order.
	Pages []*DiscoveredPage

	// Homepage holds the homepage metadata when the homepage was fetched.
	Homepage *PageMeta
}

// LinkCrawler discovers pages by following internal links.
type LinkCrawler interface {
	// Crawl walks the site breadth-first from baseURL. Pages whose key is
	// among known are not reported but are crawled for further links.
	// At most remaining pages are returned.
	Crawl(ctx context.Context, baseURL string, known []string, remaining int) *CrawlResult
}

// PathProber discovers pages by probing a catalog of common paths.
type PathProber interface {
	// ProbePaths returns the catalog pages that exist on the site at baseURL.
	ProbePaths(ctx context.Context, baseURL string) []*DiscoveredPage
}
