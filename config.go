package pagescout

import "time"

// Config holds every tunable of a discovery run. The catalogs are heuristics
// tuned for agency and small-business marketing sites; they are data, not
// code, so deployments can override them from a config file.
type Config struct {
	// MaxPages caps the result when the caller passes zero.
	MaxPages int `mapstructure:"max_pages"`

	// Deadline bounds a whole discovery run. Zero disables it. When it
	// expires the pages registered so far are returned.
	Deadline time.Duration `mapstructure:"deadline"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`

	Sitemap SitemapConfig `mapstructure:"sitemap"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Probe   ProbeConfig   `mapstructure:"probe"`
}

// SitemapConfig configures sitemap discovery.
type SitemapConfig struct {
	// Candidates are site-relative sitemap locations tried in order.
	Candidates []string `mapstructure:"candidates"`
	// CandidateTimeout bounds each candidate fetch.
	CandidateTimeout time.Duration `mapstructure:"candidate_timeout"`
	// ChildTimeout bounds each child and pagination fetch.
	ChildTimeout time.Duration `mapstructure:"child_timeout"`
	// MaxPaginationPages is how many pages past a paginated child are probed.
	MaxPaginationPages int `mapstructure:"max_pagination_pages"`
	// RobotsTxt enables reading Sitemap: directives from /robots.txt.
	RobotsTxt bool `mapstructure:"robots_txt"`
}

// CrawlConfig configures the internal-link crawler.
type CrawlConfig struct {
	// SeedPaths are crawled at depth 0 next to the homepage.
	SeedPaths []string `mapstructure:"seed_paths"`
	// MaxDepth is the number of breadth-first levels.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxURLsPerDepth caps how many URLs are fetched per level.
	MaxURLsPerDepth int `mapstructure:"max_urls_per_depth"`
	// FetchTimeout bounds each page fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// Delay is the minimum spacing between fetches to the site.
	Delay time.Duration `mapstructure:"delay"`
	// Concurrency is the number of fetches in flight within a level.
	Concurrency int `mapstructure:"concurrency"`
}

// ProbeConfig configures common-path probing.
type ProbeConfig struct {
	// Paths are probed with HEAD requests.
	Paths []string `mapstructure:"paths"`
	// Timeout bounds each probe.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultUserAgent identifies the crawler to audited sites.
const DefaultUserAgent = "pagescout/1.0 (+https://github.com/fwojciec/pagescout)"

// DefaultSitemapCandidates are the sitemap locations tried on every site.
func DefaultSitemapCandidates() []string {
	return []string{
		"/sitemap.xml",
		"/sitemap_index.xml",
		"/wp-sitemap.xml",
		"/sitemap-index.xml",
		"/sitemaps.xml",
		"/sitemap/sitemap.xml",
		"/page-sitemap.xml",
		"/post-sitemap.xml",
	}
}

// DefaultSeedPaths are likely section roots crawled next to the homepage.
func DefaultSeedPaths() []string {
	return []string{
		"/services", "/services/",
		"/products", "/products/",
		"/blog", "/blog/",
		"/about", "/about/",
		"/team", "/team/",
		"/sectors", "/sectors/",
		"/portfolio", "/portfolio/",
		"/news", "/news/",
	}
}

// DefaultProbePaths are common content paths probed for existence.
func DefaultProbePaths() []string {
	return []string{
		"/services/seo",
		"/services/web-design",
		"/services/ppc",
		"/services/social-media",
		"/services/content-marketing",
		"/services/branding",
		"/about-us/",
		"/about/team/",
		"/our-team/",
		"/case-studies/",
		"/work/",
		"/our-work/",
		"/portfolio/",
		"/clients/",
		"/testimonials/",
		"/pricing/",
		"/contact/",
		"/contact-us/",
		"/faq/",
		"/careers/",
		"/jobs/",
		"/blog/",
		"/news/",
		"/resources/",
		"/insights/",
		"/industries/",
		"/sectors/",
		"/solutions/",
		"/privacy-policy/",
		"/terms/",
	}
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages:  DefaultMaxPages,
		UserAgent: DefaultUserAgent,
		Sitemap: SitemapConfig{
			Candidates:         DefaultSitemapCandidates(),
			CandidateTimeout:   15 * time.Second,
			ChildTimeout:       10 * time.Second,
			MaxPaginationPages: 10,
			RobotsTxt:          true,
		},
		Crawl: CrawlConfig{
			SeedPaths:       DefaultSeedPaths(),
			MaxDepth:        5,
			MaxURLsPerDepth: 50,
			FetchTimeout:    8 * time.Second,
			Delay:           200 * time.Millisecond,
			Concurrency:     1,
		},
		Probe: ProbeConfig{
			Paths:   DefaultProbePaths(),
			Timeout: 5 * time.Second,
		},
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	if c.MaxPages <= 0 {
		return Errorf(EINVALID, "max_pages must be > 0")
	}
	if c.Deadline < 0 {
		return Errorf(EINVALID, "deadline must be >= 0")
	}
	if c.Sitemap.CandidateTimeout <= 0 || c.Sitemap.ChildTimeout <= 0 {
		return Errorf(EINVALID, "sitemap timeouts must be > 0")
	}
	if c.Sitemap.MaxPaginationPages < 0 {
		return Errorf(EINVALID, "sitemap.max_pagination_pages must be >= 0")
	}
	if c.Crawl.MaxDepth < 0 {
		return Errorf(EINVALID, "crawl.max_depth must be >= 0")
	}
	if c.Crawl.MaxURLsPerDepth <= 0 {
		return Errorf(EINVALID, "crawl.max_urls_per_depth must be > 0")
	}
	if c.Crawl.FetchTimeout <= 0 {
		return Errorf(EINVALID, "crawl.fetch_timeout must be > 0")
	}
	if c.Crawl.Delay < 0 {
		return Errorf(EINVALID, "crawl.delay must be >= 0")
	}
	if c.Crawl.Concurrency <= 0 {
		return Errorf(EINVALID, "crawl.concurrency must be > 0")
	}
	if c.Probe.Timeout <= 0 {
		return Errorf(EINVALID, "probe.timeout must be > 0")
	}
	return nil
}
