package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagescout"
	"github.com/fwojciec/pagescout/crawl"
	"github.com/fwojciec/pagescout/goquery"
	scouthttp "github.com/fwojciec/pagescout/http"
	scoutslog "github.com/fwojciec/pagescout/slog"
	scoutviper "github.com/fwojciec/pagescout/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagescout"),
		kong.Description("Discover the pages of a website from its sitemaps, internal links and common paths"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := scoutviper.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", pagescout.ErrorMessage(err))
		return err
	}
	if err := cli.apply(&cfg); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", pagescout.ErrorMessage(err))
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Stderr:     stderr,
		Discoverer: NewDiscoverer(cfg, logger, cli.Verbose),
	}

	cmd := &DiscoverCmd{
		URL:      cli.URL,
		MaxPages: cfg.MaxPages,
		Scope: pagescout.Scope{
			ExcludedPaths: cli.Exclude,
			PageLimit:     cli.Limit,
		},
		JSON: cli.JSON,
	}

	return cmd.Run(deps)
}

// NewDiscoverer wires the HTTP, HTML and crawl implementations for cfg.
// With decorate set every network-facing service is wrapped with a logging
// decorator.
func NewDiscoverer(cfg pagescout.Config, logger *slog.Logger, decorate bool) pagescout.PageDiscoverer {
	var (
		sitemaps pagescout.SitemapService = scouthttp.NewSitemapService(nil,
			scouthttp.WithSitemapConfig(cfg.Sitemap),
			scouthttp.WithSitemapUserAgent(cfg.UserAgent),
			scouthttp.WithSitemapLogger(logger),
		)
		fetcher pagescout.Fetcher = scouthttp.NewFetcher(
			scouthttp.WithTimeout(cfg.Crawl.FetchTimeout),
			scouthttp.WithUserAgent(cfg.UserAgent),
		)
		prober pagescout.Prober = scouthttp.NewProber(
			scouthttp.WithTimeout(cfg.Probe.Timeout),
			scouthttp.WithUserAgent(cfg.UserAgent),
		)
	)
	if decorate {
		sitemaps = scoutslog.NewLoggingSitemapService(sitemaps, logger)
		fetcher = scoutslog.NewLoggingFetcher(fetcher, logger)
		prober = scoutslog.NewLoggingProber(prober, logger)
	}

	var d pagescout.PageDiscoverer = &crawl.Discoverer{
		Sitemaps: sitemaps,
		Crawler: &crawl.Crawler{
			Fetcher:     fetcher,
			Extractor:   goquery.NewLinkExtractor(),
			RateLimiter: crawl.NewDelayLimiter(cfg.Crawl.Delay),
			Config:      cfg.Crawl,
			Logger:      logger,
		},
		Patterns: &crawl.PatternProber{
			Prober:  prober,
			Paths:   cfg.Probe.Paths,
			Timeout: cfg.Probe.Timeout,
			Logger:  logger,
		},
		Deadline: cfg.Deadline,
		Logger:   logger,
	}
	if decorate {
		d = scoutslog.NewLoggingDiscoverer(d, logger)
	}
	return d
}
