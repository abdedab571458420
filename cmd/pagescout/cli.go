package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/pagescout"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	MaxPages    int           `short:"n" help:"Maximum number of pages to discover (default 100)"`
	Exclude     []string      `short:"x" help:"Drop pages whose path starts with this prefix (repeatable)"`
	Limit       int           `short:"l" help:"Keep at most this many pages after exclusions (0 for no limit)"`
	Config      string        `type:"path" help:"Config file (YAML, TOML or JSON)"`
	JSON        bool          `help:"Print the result as JSON"`
	Verbose     bool          `short:"v" help:"Log discovery progress to stderr"`
	Deadline    time.Duration `help:"Time limit for the whole run (0 for none)"`
	Concurrency int           `short:"c" help:"Concurrent fetches per crawl level"`
	URL         string        `arg:"" required:"" help:"Site to discover, e.g. example.com"`
}

// apply overrides cfg with the flags that were set.
func (c *CLI) apply(cfg *pagescout.Config) error {
	if c.MaxPages < 0 || c.Limit < 0 || c.Deadline < 0 || c.Concurrency < 0 {
		return pagescout.Errorf(pagescout.EINVALID, "numeric flags must not be negative")
	}
	if c.MaxPages > 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.Deadline > 0 {
		cfg.Deadline = c.Deadline
	}
	if c.Concurrency > 0 {
		cfg.Crawl.Concurrency = c.Concurrency
	}
	return cfg.Validate()
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Discoverer pagescout.PageDiscoverer
}

// DiscoverCmd discovers the pages of one site and prints them.
type DiscoverCmd struct {
	URL      string
	MaxPages int
	Scope    pagescout.Scope
	JSON     bool
}

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	result := deps.Discoverer.DiscoverPages(deps.Ctx, c.URL, c.MaxPages)

	pages := c.Scope.Apply(result.Pages)

	if c.JSON {
		out := *result
		out.Pages = pages
		out.TotalFound = len(pages)
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return nil
	}

	for _, p := range pages {
		fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", p.Source, p.URL, p.Title)
	}
	fmt.Fprintf(deps.Stdout, "Found %d pages (homepage: %d, sitemap: %d, internal links: %d) in %s\n",
		len(pages),
		result.Sources.Homepage,
		result.Sources.Sitemap,
		result.Sources.InternalLinks,
		result.Duration.Round(time.Millisecond),
	)
	return nil
}
