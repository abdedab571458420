package crawl

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/pagescout"
	"golang.org/x/sync/errgroup"
)

// Link text outside these bounds is not used as a page title.
const (
	minLinkTitleLen = 3
	maxLinkTitleLen = 100
)

var _ pagescout.LinkCrawler = (*Crawler)(nil)

// Crawler discovers pages by following internal links breadth-first from
// the homepage and a list of likely section paths.
type Crawler struct {
	Fetcher     pagescout.Fetcher
	Extractor   pagescout.LinkExtractor
	RateLimiter pagescout.DomainLimiter
	Config      pagescout.CrawlConfig
	Logger      *slog.Logger
}

// pageFetch holds the outcome of fetching a single URL.
type pageFetch struct {
	url  string
	html string
	err  error
}

// Crawl walks the site at baseURL level by level. Each level is fetched in
// batches of Config.Concurrency URLs and processed in frontier order, so the
// result does not depend on fetch timing. Pages whose key is among
// known are crawled but not reported. The crawl stops after MaxDepth
// levels, when no unvisited URLs remain, once remaining pages have been
// found, or when ctx is done.
func (c *Crawler) Crawl(ctx context.Context, baseURL string, known []string, remaining int) *pagescout.CrawlResult {
	start := time.Now()
	result := &pagescout.CrawlResult{}
	if remaining <= 0 {
		return result
	}

	logger := c.logger()
	base, err := pagescout.ParseURL(baseURL)
	if err != nil {
		logger.Debug("crawl skipped", "url", baseURL, "err", err)
		return result
	}
	homeKey, _ := pagescout.NormalizeKey(baseURL)

	w := &walk{
		crawler:    c,
		host:       pagescout.SiteHost(base),
		homeKey:    homeKey,
		remaining:  remaining,
		discovered: map[string]bool{homeKey: true},
		frontier:   NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate, c.Config.MaxURLsPerDepth),
		result:     result,
		logger:     logger,
	}
	for _, u := range known {
		if key, err := pagescout.NormalizeKey(u); err == nil {
			w.discovered[key] = true
			w.frontier.Offer(u)
		}
	}

	levels := w.run(ctx, c.seedLevel(baseURL, w.frontier))

	logger.Info("crawl finished",
		"url", baseURL,
		"levels", levels,
		"pages", len(result.Pages),
		"queued", w.frontier.Len(),
		"visited", w.frontier.VisitedCount(),
		"duration", time.Since(start),
	)
	return result
}

// walk holds the state of one Crawl call.
type walk struct {
	crawler    *Crawler
	host       string
	homeKey    string
	remaining  int
	discovered map[string]bool
	frontier   *Frontier
	result     *pagescout.CrawlResult
	logger     *slog.Logger
}

// run processes levels until a stop condition holds and returns the number
// of levels fetched. A level is fetched in batches of Config.Concurrency
// URLs; the budget and ctx are checked after each batch.
func (w *walk) run(ctx context.Context, level []string) int {
	size := w.crawler.concurrency()
	depth := 0
	for ; depth < w.crawler.Config.MaxDepth && len(level) > 0; depth++ {
		for start := 0; start < len(level); start += size {
			batch := level[start:min(start+size, len(level))]
			for _, f := range w.crawler.fetchBatch(ctx, w.host, batch) {
				if f.err != nil {
					w.logger.Debug("crawl fetch failed", "url", f.url, "depth", depth, "err", f.err)
					continue
				}
				if done := w.handlePage(f); done {
					return depth + 1
				}
			}
			if ctx.Err() != nil {
				return depth + 1
			}
		}
		level = w.frontier.Next()
	}
	return depth
}

// handlePage records the new same-site links of a fetched page. It reports
// true once the page budget is used up.
func (w *walk) handlePage(f pageFetch) bool {
	if w.result.Homepage == nil && w.isHomepage(f.url) {
		if meta, err := w.crawler.Extractor.ExtractMeta(f.html); err == nil {
			w.result.Homepage = &meta
		}
	}

	links, err := w.crawler.Extractor.ExtractLinks(f.html, f.url)
	if err != nil {
		w.logger.Debug("link extraction failed", "url", f.url, "err", err)
		return false
	}

	for _, link := range links {
		u, err := pagescout.ParseURL(link.URL)
		if err != nil || !pagescout.SameSite(u, w.host) || !pagescout.IsPageLike(u) {
			continue
		}
		key, err := pagescout.NormalizeKey(link.URL)
		if err != nil || w.discovered[key] {
			continue
		}
		w.discovered[key] = true
		w.frontier.Offer(link.URL)
		w.result.Pages = append(w.result.Pages, &pagescout.DiscoveredPage{
			URL:    link.URL,
			Title:  linkTitle(link),
			Source: pagescout.SourceInternalLink,
		})
		if len(w.result.Pages) >= w.remaining {
			return true
		}
	}
	return false
}

func (w *walk) isHomepage(rawURL string) bool {
	key, err := pagescout.NormalizeKey(rawURL)
	return err == nil && key == w.homeKey
}

// seedLevel returns the first level: the homepage followed by the seed
// paths. Seeds differing only by a trailing slash are both fetched, since
// sites often serve only one of them.
func (c *Crawler) seedLevel(baseURL string, frontier *Frontier) []string {
	level := []string{baseURL}
	seen := map[string]bool{baseURL: true}
	frontier.Visit(baseURL)

	for _, p := range c.Config.SeedPaths {
		u, err := pagescout.ResolveURL(p, baseURL)
		if err != nil {
			continue
		}
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		frontier.Visit(s)
		level = append(level, s)
	}
	return level
}

// fetchBatch fetches urls concurrently and returns the outcomes in input
// order. A failed fetch never stops the others.
func (c *Crawler) fetchBatch(ctx context.Context, host string, urls []string) []pageFetch {
	results := make([]pageFetch, len(urls))
	g := new(errgroup.Group)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.fetch(ctx, host, u)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Crawler) concurrency() int {
	if c.Config.Concurrency <= 0 {
		return 1
	}
	return c.Config.Concurrency
}

func (c *Crawler) fetch(ctx context.Context, host, rawURL string) pageFetch {
	if err := ctx.Err(); err != nil {
		return pageFetch{url: rawURL, err: err}
	}
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, host); err != nil {
			return pageFetch{url: rawURL, err: err}
		}
	}

	if c.Config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Config.FetchTimeout)
		defer cancel()
	}
	html, err := c.Fetcher.Fetch(ctx, rawURL)
	return pageFetch{url: rawURL, html: html, err: err}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// linkTitle uses the anchor text as the title unless it is too short or too
// long to be one.
func linkTitle(link pagescout.Link) string {
	n := utf8.RuneCountInString(link.Text)
	if n < minLinkTitleLen || n > maxLinkTitleLen {
		return pagescout.TitleFromURL(link.URL)
	}
	return link.Text
}
