package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/pagescout"
)

// Ensure LoggingDiscoverer implements pagescout.PageDiscoverer.
var _ pagescout.PageDiscoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a PageDiscoverer and logs each run's outcome.
type LoggingDiscoverer struct {
	next   pagescout.PageDiscoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next pagescout.PageDiscoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// DiscoverPages delegates to the wrapped discoverer and logs the result.
func (d *LoggingDiscoverer) DiscoverPages(ctx context.Context, baseURL string, maxPages int) *pagescout.Result {
	result := d.next.DiscoverPages(ctx, baseURL, maxPages)
	d.logger.Info("page discovery",
		"run_id", result.RunID,
		"url", baseURL,
		"max_pages", maxPages,
		"count", result.TotalFound,
		"sitemap", result.Sources.Sitemap,
		"internal_links", result.Sources.InternalLinks,
		"homepage", result.Sources.Homepage,
		"duration", result.Duration,
	)
	return result
}
