package crawl

import (
	"slices"
	"strings"

	"github.com/fwojciec/pagescout"
)

// Registry collects the pages of one discovery run. It deduplicates by
// normalized key, keeps the first instance of each page, refuses pages once
// it holds maxPages, and counts accepted pages per source.
//
// A Registry is owned by a single goroutine. After Finalize every Add is
// rejected.
type Registry struct {
	maxPages  int
	keys      map[string]bool
	pages     []*pagescout.DiscoveredPage
	counts    pagescout.SourceCounts
	finalized bool
}

// NewRegistry returns an empty Registry capped at maxPages.
func NewRegistry(maxPages int) *Registry {
	return &Registry{
		maxPages: maxPages,
		keys:     make(map[string]bool),
	}
}

// Add inserts p and reports whether it was accepted.
func (r *Registry) Add(p *pagescout.DiscoveredPage) bool {
	if r.finalized || p == nil || r.Full() {
		return false
	}
	key := registryKey(p.URL)
	if r.keys[key] {
		return false
	}
	r.keys[key] = true
	r.pages = append(r.pages, p)

	switch p.Source {
	case pagescout.SourceHomepage:
		r.counts.Homepage++
	case pagescout.SourceSitemap:
		r.counts.Sitemap++
	case pagescout.SourceInternalLink:
		r.counts.InternalLinks++
	}
	return true
}

// AddAll inserts pages in order and returns how many were accepted.
func (r *Registry) AddAll(pages []*pagescout.DiscoveredPage) int {
	n := 0
	for _, p := range pages {
		if r.Add(p) {
			n++
		}
	}
	return n
}

// Full reports whether the registry holds maxPages pages.
func (r *Registry) Full() bool {
	return len(r.pages) >= r.maxPages
}

// Len returns the number of registered pages.
func (r *Registry) Len() int {
	return len(r.pages)
}

// Remaining returns how many more pages the registry accepts.
func (r *Registry) Remaining() int {
	return max(r.maxPages-len(r.pages), 0)
}

// URLs returns the registered page URLs in insertion order.
func (r *Registry) URLs() []string {
	urls := make([]string, len(r.pages))
	for i, p := range r.pages {
		urls[i] = p.URL
	}
	return urls
}

// Lookup returns the registered page with the same key as rawURL.
func (r *Registry) Lookup(rawURL string) *pagescout.DiscoveredPage {
	key := registryKey(rawURL)
	for _, p := range r.pages {
		if registryKey(p.URL) == key {
			return p
		}
	}
	return nil
}

// Finalize closes the registry and returns its pages sorted by source
// priority, ties in insertion order, together with the per-source counts.
func (r *Registry) Finalize() ([]*pagescout.DiscoveredPage, pagescout.SourceCounts) {
	r.finalized = true
	pages := slices.Clone(r.pages)
	slices.SortStableFunc(pages, func(a, b *pagescout.DiscoveredPage) int {
		return int(a.Source) - int(b.Source)
	})
	if len(pages) > r.maxPages {
		pages = pages[:r.maxPages]
	}
	return pages, r.counts
}

// registryKey falls back to the trimmed raw URL when it cannot be
// normalized, so a homepage built from unparsable input is still kept.
func registryKey(rawURL string) string {
	if key, err := pagescout.NormalizeKey(rawURL); err == nil {
		return key
	}
	return strings.TrimSpace(rawURL)
}
