package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/pagescout"
	"github.com/fwojciec/pagescout/crawl"
	"github.com/fwojciec/pagescout/goquery"
	scouthttp "github.com/fwojciec/pagescout/http"
	"github.com/fwojciec/pagescout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sitemapPages(urls ...string) *mock.SitemapService {
	return &mock.SitemapService{
		DiscoverFn: func(_ context.Context, _ string) ([]*pagescout.DiscoveredPage, error) {
			pages := make([]*pagescout.DiscoveredPage, len(urls))
			for i, u := range urls {
				pages[i] = page(u, pagescout.SourceSitemap)
			}
			return pages, nil
		},
	}
}

func crawledPages(urls ...string) *mock.LinkCrawler {
	return &mock.LinkCrawler{
		CrawlFn: func(_ context.Context, _ string, _ []string, _ int) *pagescout.CrawlResult {
			res := &pagescout.CrawlResult{}
			for _, u := range urls {
				res.Pages = append(res.Pages, page(u, pagescout.SourceInternalLink))
			}
			return res
		},
	}
}

func probedPages(urls ...string) *mock.PathProber {
	return &mock.PathProber{
		ProbePathsFn: func(_ context.Context, _ string) []*pagescout.DiscoveredPage {
			var pages []*pagescout.DiscoveredPage
			for _, u := range urls {
				pages = append(pages, page(u, pagescout.SourceInternalLink))
			}
			return pages
		},
	}
}

func failingSources() *crawl.Discoverer {
	return &crawl.Discoverer{
		Sitemaps: &mock.SitemapService{
			DiscoverFn: func(_ context.Context, _ string) ([]*pagescout.DiscoveredPage, error) {
				return nil, nil
			},
		},
		Crawler:  crawledPages(),
		Patterns: probedPages(),
	}
}

func TestDiscoverer_DiscoverPages(t *testing.T) {
	t.Parallel()

	t.Run("returns the homepage alone when every source finds nothing", func(t *testing.T) {
		t.Parallel()

		result := failingSources().DiscoverPages(context.Background(), "example.com/", 100)

		require.Len(t, result.Pages, 1)
		assert.Equal(t, &pagescout.DiscoveredPage{
			URL:    "https://example.com",
			Title:  "Home",
			Source: pagescout.SourceHomepage,
		}, result.Pages[0])
		assert.Equal(t, 1, result.TotalFound)
		assert.Equal(t, pagescout.SourceCounts{Homepage: 1}, result.Sources)
		assert.NotEmpty(t, result.RunID)
	})

	t.Run("returns a homepage-only result for an unusable base URL", func(t *testing.T) {
		t.Parallel()

		called := false
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverFn: func(_ context.Context, _ string) ([]*pagescout.DiscoveredPage, error) {
					called = true
					return nil, nil
				},
			},
		}

		result := d.DiscoverPages(context.Background(), "ftp://example.com", 100)

		require.Len(t, result.Pages, 1)
		assert.Equal(t, "ftp://example.com", result.Pages[0].URL)
		assert.Equal(t, pagescout.SourceHomepage, result.Pages[0].Source)
		assert.False(t, called)
	})

	t.Run("deduplicates a sitemap root entry against the homepage", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: sitemapPages(
				"https://example.com/",
				"https://example.com/about",
				"https://example.com/contact",
			),
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 5)

		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/about",
			"https://example.com/contact",
		}, pageURLs(result.Pages))
		assert.Equal(t, 2, result.Sources.Sitemap)
		assert.Equal(t, 1, result.Sources.Homepage)
		assert.LessOrEqual(t, result.TotalFound, 4)
	})

	t.Run("caps the result at maxPages and skips probing when full", func(t *testing.T) {
		t.Parallel()

		var urls []string
		for i := range 10 {
			urls = append(urls, fmt.Sprintf("https://example.com/post-%d", i))
		}
		var remaining int
		probed := false
		d := &crawl.Discoverer{
			Sitemaps: sitemapPages(urls...),
			Crawler: &mock.LinkCrawler{
				CrawlFn: func(_ context.Context, _ string, _ []string, n int) *pagescout.CrawlResult {
					remaining = n
					return &pagescout.CrawlResult{}
				},
			},
			Patterns: &mock.PathProber{
				ProbePathsFn: func(_ context.Context, _ string) []*pagescout.DiscoveredPage {
					probed = true
					return nil
				},
			},
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 5)

		assert.Len(t, result.Pages, 5)
		assert.Equal(t, 5, result.TotalFound)
		assert.Equal(t, 4, result.Sources.Sitemap)
		assert.Equal(t, 0, remaining)
		assert.False(t, probed)
	})

	t.Run("uses the default cap when maxPages is not positive", func(t *testing.T) {
		t.Parallel()

		var urls []string
		for i := range 150 {
			urls = append(urls, fmt.Sprintf("https://example.com/post-%d", i))
		}
		d := &crawl.Discoverer{Sitemaps: sitemapPages(urls...)}

		result := d.DiscoverPages(context.Background(), "https://example.com", 0)

		assert.Len(t, result.Pages, pagescout.DefaultMaxPages)
	})

	t.Run("orders pages by source with sitemap entries winning duplicates", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: sitemapPages("https://example.com/blog/", "https://example.com/about"),
			Crawler:  crawledPages("https://www.example.com/about/", "https://example.com/team"),
			Patterns: probedPages("https://example.com/pricing/", "https://example.com/team/"),
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 100)

		assert.Equal(t, []string{
			"https://example.com",
			"https://example.com/blog/",
			"https://example.com/about",
			"https://example.com/team",
			"https://example.com/pricing/",
		}, pageURLs(result.Pages))
		assert.Equal(t, pagescout.SourceSitemap, result.Pages[2].Source)
		assert.Equal(t, pagescout.SourceCounts{Sitemap: 2, InternalLinks: 2, Homepage: 1}, result.Sources)
	})

	t.Run("passes registered URLs and the remaining budget to the crawler", func(t *testing.T) {
		t.Parallel()

		var gotKnown []string
		var gotRemaining int
		d := &crawl.Discoverer{
			Sitemaps: sitemapPages("https://example.com/about"),
			Crawler: &mock.LinkCrawler{
				CrawlFn: func(_ context.Context, _ string, known []string, remaining int) *pagescout.CrawlResult {
					gotKnown = known
					gotRemaining = remaining
					return &pagescout.CrawlResult{}
				},
			},
		}

		d.DiscoverPages(context.Background(), "https://example.com", 10)

		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, gotKnown)
		assert.Equal(t, 8, gotRemaining)
	})

	t.Run("enriches the homepage with crawled metadata", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Crawler: &mock.LinkCrawler{
				CrawlFn: func(_ context.Context, _ string, _ []string, _ int) *pagescout.CrawlResult {
					return &pagescout.CrawlResult{
						Homepage: &pagescout.PageMeta{Title: "Acme Digital", Description: "Web design in Leeds"},
					}
				},
			},
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 10)

		require.Len(t, result.Pages, 1)
		assert.Equal(t, "Acme Digital", result.Pages[0].Title)
		assert.Equal(t, "Web design in Leeds", result.Pages[0].Description)
	})

	t.Run("recovers from a panicking source and skips the rest", func(t *testing.T) {
		t.Parallel()

		probed := false
		d := &crawl.Discoverer{
			Sitemaps: sitemapPages("https://example.com/about"),
			Crawler: &mock.LinkCrawler{
				CrawlFn: func(_ context.Context, _ string, _ []string, _ int) *pagescout.CrawlResult {
					panic("extractor blew up")
				},
			},
			Patterns: &mock.PathProber{
				ProbePathsFn: func(_ context.Context, _ string) []*pagescout.DiscoveredPage {
					probed = true
					return nil
				},
			},
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 10)

		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, pageURLs(result.Pages))
		assert.False(t, probed)
	})

	t.Run("keeps partial sitemap pages when the sitemap source fails", func(t *testing.T) {
		t.Parallel()

		crawled := false
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverFn: func(_ context.Context, _ string) ([]*pagescout.DiscoveredPage, error) {
					return []*pagescout.DiscoveredPage{page("https://example.com/about", pagescout.SourceSitemap)},
						errors.New("connection lost")
				},
			},
			Crawler: &mock.LinkCrawler{
				CrawlFn: func(_ context.Context, _ string, _ []string, _ int) *pagescout.CrawlResult {
					crawled = true
					return nil
				},
			},
		}

		result := d.DiscoverPages(context.Background(), "https://example.com", 10)

		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, pageURLs(result.Pages))
		assert.False(t, crawled)
	})

	t.Run("returns the partial result when the deadline expires", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverFn: func(ctx context.Context, _ string) ([]*pagescout.DiscoveredPage, error) {
					<-ctx.Done()
					return []*pagescout.DiscoveredPage{page("https://example.com/about", pagescout.SourceSitemap)}, ctx.Err()
				},
			},
			Crawler:  crawledPages("https://example.com/never"),
			Deadline: 20 * time.Millisecond,
		}

		start := time.Now()
		result := d.DiscoverPages(context.Background(), "https://example.com", 10)

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, pageURLs(result.Pages))
	})

	t.Run("assigns a new run ID to every run", func(t *testing.T) {
		t.Parallel()

		d := failingSources()

		first := d.DiscoverPages(context.Background(), "https://example.com", 10)
		second := d.DiscoverPages(context.Background(), "https://example.com", 10)

		assert.NotEqual(t, first.RunID, second.RunID)
	})
}

func TestDiscoverer_DiscoverPages_againstServer(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := server.URL
		switch r.URL.Path {
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(urlset(
				base+"/",
				base+"/about",
				base+"/blog/first-post",
				"https://elsewhere.example.org/page",
				base+"/wp-content/uploads/logo.png",
			)))
		case "/", "":
			_, _ = w.Write([]byte(`<html><head><title>Acme</title></head><body>
<a href="/about/">About</a>
<a href="/services/seo">SEO services</a>
<a href="https://twitter.com/acme">Twitter</a>
</body></html>`))
		case "/services/seo":
			_, _ = w.Write([]byte(`<a href="/services/ppc">Paid search</a>`))
		case "/pricing/":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := pagescout.DefaultConfig()
	cfg.Crawl.Delay = 0
	cfg.Crawl.SeedPaths = nil
	cfg.Probe.Paths = []string{"/pricing/", "/careers/"}

	d := &crawl.Discoverer{
		Sitemaps: scouthttp.NewSitemapService(server.Client(), scouthttp.WithSitemapConfig(cfg.Sitemap)),
		Crawler: &crawl.Crawler{
			Fetcher:     scouthttp.NewFetcher(scouthttp.WithClient(server.Client())),
			Extractor:   goquery.NewLinkExtractor(),
			RateLimiter: crawl.NewDelayLimiter(cfg.Crawl.Delay),
			Config:      cfg.Crawl,
		},
		Patterns: &crawl.PatternProber{
			Prober:  scouthttp.NewProber(scouthttp.WithClient(server.Client())),
			Paths:   cfg.Probe.Paths,
			Timeout: cfg.Probe.Timeout,
		},
	}

	result := d.DiscoverPages(context.Background(), server.URL, 100)

	base := server.URL
	assert.Equal(t, []string{
		base,
		base + "/about",
		base + "/blog/first-post",
		base + "/services/seo",
		base + "/services/ppc",
		base + "/pricing/",
	}, pageURLs(result.Pages))
	assert.Equal(t, "Acme", result.Pages[0].Title)
	assert.Equal(t, pagescout.SourceCounts{Sitemap: 2, InternalLinks: 3, Homepage: 1}, result.Sources)
	for _, p := range result.Pages {
		assert.True(t, strings.HasPrefix(p.URL, base), "page %s is off-site", p.URL)
	}
}

// urlset renders a leaf sitemap listing locs.
func urlset(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		b.WriteString("<url><loc>" + loc + "</loc></url>\n")
	}
	b.WriteString("</urlset>")
	return b.String()
}
