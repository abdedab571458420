package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagescout"
	"golang.org/x/sync/errgroup"
)

var _ pagescout.PathProber = (*PatternProber)(nil)

// PatternProber discovers pages by probing a catalog of common paths.
type PatternProber struct {
	Prober  pagescout.Prober
	Paths   []string
	Timeout time.Duration
	Logger  *slog.Logger
}

// ProbePaths probes every catalog path concurrently and returns the pages
// that answered with a 2xx status, in catalog order. A failed probe counts
// as a missing page.
func (p *PatternProber) ProbePaths(ctx context.Context, baseURL string) []*pagescout.DiscoveredPage {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	urls := make([]string, 0, len(p.Paths))
	for _, path := range p.Paths {
		u, err := pagescout.ResolveURL(path, baseURL)
		if err != nil {
			logger.Debug("invalid probe path", "path", path, "err", err)
			continue
		}
		urls = append(urls, u.String())
	}

	found := make([]bool, len(urls))
	g := new(errgroup.Group)
	for i, u := range urls {
		g.Go(func() error {
			found[i] = p.probe(ctx, u, logger)
			return nil
		})
	}
	_ = g.Wait()

	var pages []*pagescout.DiscoveredPage
	for i, u := range urls {
		if !found[i] {
			continue
		}
		pages = append(pages, &pagescout.DiscoveredPage{
			URL:    u,
			Title:  pagescout.TitleFromURL(u),
			Source: pagescout.SourceInternalLink,
		})
	}
	logger.Info("probe finished", "url", baseURL, "probed", len(urls), "found", len(pages))
	return pages
}

func (p *PatternProber) probe(ctx context.Context, url string, logger *slog.Logger) bool {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	ok, err := p.Prober.Probe(ctx, url)
	if err != nil {
		logger.Debug("probe failed", "url", url, "err", err)
		return false
	}
	return ok
}
