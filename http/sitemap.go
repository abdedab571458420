package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/pagescout"
	"github.com/temoto/robotstxt"
)

// maxSitemapBytes caps how much of a sitemap body is read.
const maxSitemapBytes = 50 << 20

// Ensure SitemapService implements pagescout.SitemapService.
var _ pagescout.SitemapService = (*SitemapService)(nil)

// SitemapService discovers pages from website sitemaps via HTTP.
type SitemapService struct {
	client    *http.Client
	cfg       pagescout.SitemapConfig
	userAgent string
	logger    *slog.Logger
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapConfig replaces the candidate list, timeouts and pagination limit.
func WithSitemapConfig(cfg pagescout.SitemapConfig) SitemapOption {
	return func(s *SitemapService) {
		s.cfg = cfg
	}
}

// WithSitemapUserAgent sets the User-Agent header sent with sitemap requests.
func WithSitemapUserAgent(ua string) SitemapOption {
	return func(s *SitemapService) {
		s.userAgent = ua
	}
}

// WithSitemapLogger sets the logger used for skipped sitemaps and rejected
// entries.
func WithSitemapLogger(logger *slog.Logger) SitemapOption {
	return func(s *SitemapService) {
		s.logger = logger
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{
		client:    client,
		cfg:       pagescout.DefaultConfig().Sitemap,
		userAgent: pagescout.DefaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover finds all pages listed in a site's sitemaps.
//
// The candidate locations are tried one at a time, followed by any
// Sitemap: directives in robots.txt. A sitemap that cannot be fetched or
// parsed is skipped. If ctx is canceled the pages found so far are returned
// together with the context error.
func (s *SitemapService) Discover(ctx context.Context, baseURL string) ([]*pagescout.DiscoveredPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := pagescout.ParseURL(baseURL)
	if err != nil {
		return nil, err
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}

	d := &sitemapDiscovery{
		svc:          s,
		host:         pagescout.SiteHost(base),
		seenSitemaps: make(map[string]bool),
		seenPages:    make(map[string]bool),
	}

	for _, candidate := range s.cfg.Candidates {
		if err := ctx.Err(); err != nil {
			return d.pages, err
		}
		ref, err := url.Parse(candidate)
		if err != nil {
			s.logger.Debug("invalid sitemap candidate", "candidate", candidate, "err", err)
			continue
		}
		d.processCandidate(ctx, root.ResolveReference(ref).String())
	}

	if s.cfg.RobotsTxt {
		robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
		for _, sitemapURL := range s.sitemapsFromRobots(ctx, robotsURL) {
			if err := ctx.Err(); err != nil {
				return d.pages, err
			}
			d.processCandidate(ctx, sitemapURL)
		}
	}

	if err := ctx.Err(); err != nil {
		return d.pages, err
	}
	return d.pages, nil
}

// sitemapDiscovery holds the state of one Discover call.
type sitemapDiscovery struct {
	svc          *SitemapService
	host         string
	seenSitemaps map[string]bool
	seenPages    map[string]bool
	pages        []*pagescout.DiscoveredPage
}

// processCandidate fetches a top-level sitemap and handles it as an index
// or a leaf.
func (d *sitemapDiscovery) processCandidate(ctx context.Context, sitemapURL string) {
	if d.seenSitemaps[sitemapURL] {
		return
	}
	d.seenSitemaps[sitemapURL] = true

	body, err := d.svc.fetch(ctx, sitemapURL, d.svc.cfg.CandidateTimeout)
	if err != nil {
		d.svc.logger.Debug("sitemap candidate skipped", "url", sitemapURL, "err", err)
		return
	}

	if isSitemapIndex(body) {
		d.processIndex(ctx, sitemapURL, body)
		return
	}
	d.addEntries(sitemapURL, parseLeaf(body))
}

// processIndex handles every child of a sitemap index, following
// pagination chains of numbered children.
func (d *sitemapDiscovery) processIndex(ctx context.Context, indexURL string, body []byte) {
	for _, loc := range parseIndexLocs(body) {
		if ctx.Err() != nil {
			return
		}
		child, err := pagescout.ResolveURL(loc, indexURL)
		if err != nil {
			d.svc.logger.Debug("invalid child sitemap", "index", indexURL, "loc", loc, "err", err)
			continue
		}
		childURL := child.String()
		if d.seenSitemaps[childURL] {
			continue
		}

		if n, err := d.processChild(ctx, childURL); err != nil || n == 0 {
			continue
		}
		d.followPagination(ctx, childURL)
	}
}

// processChild fetches a child sitemap as a leaf and returns the number of
// entries it parsed.
func (d *sitemapDiscovery) processChild(ctx context.Context, sitemapURL string) (int, error) {
	d.seenSitemaps[sitemapURL] = true

	body, err := d.svc.fetch(ctx, sitemapURL, d.svc.cfg.ChildTimeout)
	if err != nil {
		d.svc.logger.Debug("child sitemap skipped", "url", sitemapURL, "err", err)
		return 0, err
	}
	entries := parseLeaf(body)
	d.addEntries(sitemapURL, entries)
	return len(entries), nil
}

// followPagination probes the pages after a numbered sitemap until one is
// missing or empty.
func (d *sitemapDiscovery) followPagination(ctx context.Context, sitemapURL string) {
	p, ok := parsePagination(sitemapURL)
	if !ok {
		return
	}

	for i := 1; i <= d.svc.cfg.MaxPaginationPages; i++ {
		if ctx.Err() != nil {
			return
		}
		next := p.pageURL(p.page + i)
		if d.seenSitemaps[next] {
			continue
		}
		n, err := d.processChild(ctx, next)
		if err != nil || n == 0 {
			return
		}
	}
}

// addEntries keeps the same-site, page-like entries not seen before.
func (d *sitemapDiscovery) addEntries(sitemapURL string, entries []sitemapEntry) {
	for _, e := range entries {
		u, err := pagescout.ParseURL(e.Loc)
		if err != nil {
			d.svc.logger.Debug("sitemap entry rejected", "sitemap", sitemapURL, "loc", e.Loc, "err", err)
			continue
		}
		if !pagescout.SameSite(u, d.host) || !pagescout.IsPageLike(u) {
			continue
		}
		key, err := pagescout.NormalizeKey(e.Loc)
		if err != nil || d.seenPages[key] {
			continue
		}
		d.seenPages[key] = true
		d.pages = append(d.pages, &pagescout.DiscoveredPage{
			URL:          e.Loc,
			Title:        pagescout.TitleFromURL(e.Loc),
			LastModified: e.LastMod,
			Source:       pagescout.SourceSitemap,
		})
	}
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
// A missing robots.txt yields no sitemaps.
func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) []string {
	body, err := s.fetch(ctx, robotsURL, s.cfg.CandidateTimeout)
	if err != nil {
		s.logger.Debug("robots.txt skipped", "url", robotsURL, "err", err)
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		s.logger.Debug("parsing robots.txt", "url", robotsURL, "err", err)
		return nil
	}

	var sitemaps []string
	for _, sitemapURL := range data.Sitemaps {
		sitemapURL = strings.TrimSpace(sitemapURL)
		if _, err := pagescout.ParseURL(sitemapURL); err == nil {
			sitemaps = append(sitemaps, sitemapURL)
		}
	}
	return sitemaps
}

// fetch GETs targetURL within timeout and returns its body.
func (s *SitemapService) fetch(ctx context.Context, targetURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", targetURL, err)
	}
	return body, nil
}
