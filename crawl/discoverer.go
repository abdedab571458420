// Package crawl orchestrates page discovery. It runs the sitemap, link
// crawl and path probe sources in priority order and merges their pages
// into one capped, deduplicated result.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/pagescout"
	"github.com/google/uuid"
)

var _ pagescout.PageDiscoverer = (*Discoverer)(nil)

// Discoverer enumerates the pages of a site. Every source is optional; a
// nil source is skipped. A Discoverer holds no per-run state and is safe
// for concurrent use when its sources are.
type Discoverer struct {
	Sitemaps pagescout.SitemapService
	Crawler  pagescout.LinkCrawler
	Patterns pagescout.PathProber

	// Deadline bounds a whole run. Zero disables it.
	Deadline time.Duration

	Logger *slog.Logger
}

// DiscoverPages returns at most maxPages pages of the site at baseURL,
// homepage first, then sitemap pages, then pages found by crawling and
// probing. It never fails: if a source reports an error or panics, the
// remaining sources are skipped and the pages registered so far are
// returned, which always include the homepage.
func (d *Discoverer) DiscoverPages(ctx context.Context, baseURL string, maxPages int) *pagescout.Result {
	start := time.Now()
	if maxPages <= 0 {
		maxPages = pagescout.DefaultMaxPages
	}
	runID := uuid.NewString()
	logger := d.logger().With("run_id", runID)

	if d.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Deadline)
		defer cancel()
	}

	reg := NewRegistry(maxPages)
	home, err := pagescout.NormalizeBaseURL(baseURL)
	if err != nil {
		logger.Error("invalid base URL", "url", baseURL, "err", err)
		reg.Add(homepage(strings.TrimSpace(baseURL)))
	} else {
		reg.Add(homepage(home))
		if err := d.populate(ctx, home, reg, logger); err != nil {
			logger.Error("discovery aborted", "url", home, "err", err)
		}
	}

	pages, counts := reg.Finalize()
	result := &pagescout.Result{
		RunID:      runID,
		Pages:      pages,
		TotalFound: len(pages),
		Sources:    counts,
		Duration:   time.Since(start),
	}
	logger.Info("discovery finished",
		"url", baseURL,
		"pages", result.TotalFound,
		"sitemap", counts.Sitemap,
		"internal_links", counts.InternalLinks,
		"duration", result.Duration,
	)
	return result
}

// populate runs the sources in priority order. The first error or panic
// stops it.
func (d *Discoverer) populate(ctx context.Context, baseURL string, reg *Registry, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pagescout.Errorf(pagescout.EINTERNAL, "panic during discovery: %v", r)
		}
	}()

	if d.Sitemaps != nil {
		pages, err := d.Sitemaps.Discover(ctx, baseURL)
		n := reg.AddAll(pages)
		logger.Debug("sitemap pages registered", "found", len(pages), "accepted", n, "total", reg.Len())
		if err != nil {
			return fmt.Errorf("sitemap discovery: %w", err)
		}
	}

	if d.Crawler != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := d.Crawler.Crawl(ctx, baseURL, reg.URLs(), reg.Remaining())
		if res != nil {
			n := reg.AddAll(res.Pages)
			logger.Debug("crawled pages registered", "found", len(res.Pages), "accepted", n, "total", reg.Len())
			if res.Homepage != nil {
				enrichHomepage(reg.Lookup(baseURL), res.Homepage)
			}
		}
	}

	if d.Patterns != nil && !reg.Full() {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages := d.Patterns.ProbePaths(ctx, baseURL)
		n := reg.AddAll(pages)
		logger.Debug("probed pages registered", "found", len(pages), "accepted", n, "total", reg.Len())
	}

	return ctx.Err()
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

func homepage(url string) *pagescout.DiscoveredPage {
	return &pagescout.DiscoveredPage{
		URL:    url,
		Title:  "Home",
		Source: pagescout.SourceHomepage,
	}
}

// enrichHomepage copies the fetched homepage metadata onto its entry.
func enrichHomepage(page *pagescout.DiscoveredPage, meta *pagescout.PageMeta) {
	if page == nil || page.Source != pagescout.SourceHomepage {
		return
	}
	if meta.Title != "" {
		page.Title = meta.Title
	}
	page.Description = meta.Description
}
