package pagescout

import "context"

// SitemapService discovers pages from a site's XML sitemaps.
type SitemapService interface {
	// Discover returns every same-site, page-like URL listed in the site's
	// sitemaps, tagged SourceSitemap and deduplicated by NormalizeKey.
	// Missing or malformed sitemaps are not errors; only cancellation of
	// ctx is reported.
	Discover(ctx context.Context, baseURL string) ([]*DiscoveredPage, error)
}
