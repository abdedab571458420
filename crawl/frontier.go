package crawl

import (
	"github.com/fwojciec/pagescout"
	"github.com/fwojciec/pagescout/bloom"
)

// Frontier configuration for the link crawler.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for the visited set.
	frontierFalsePositiveRate = 0.001
)

// Frontier hands out breadth-first crawl levels. Candidates are kept in the
// order they were offered; each level is the next run of candidates not yet
// visited, capped at the per-level limit. Visited URLs are tracked by
// normalized key in a Bloom filter.
//
// A Frontier is owned by a single crawl and is not safe for concurrent use.
type Frontier struct {
	visited     *bloom.Filter
	offered     map[string]bool
	candidates  []string
	maxPerLevel int
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate. maxPerLevel <= 0 means no per-level cap.
func NewFrontier(n uint, fpRate float64, maxPerLevel int) *Frontier {
	return &Frontier{
		visited:     bloom.NewFilter(n, fpRate),
		offered:     make(map[string]bool),
		maxPerLevel: maxPerLevel,
	}
}

// Offer queues rawURL for a later level. It returns false if the URL is
// invalid, was offered before or was already visited.
func (f *Frontier) Offer(rawURL string) bool {
	key, err := pagescout.NormalizeKey(rawURL)
	if err != nil || f.offered[key] || f.visited.Test(key) {
		return false
	}
	f.offered[key] = true
	f.candidates = append(f.candidates, rawURL)
	return true
}

// Visit marks rawURL as visited and reports whether it was unvisited.
func (f *Frontier) Visit(rawURL string) bool {
	key, err := pagescout.NormalizeKey(rawURL)
	if err != nil {
		return false
	}
	return !f.visited.TestAndAdd(key)
}

// VisitedCount returns the approximate number of visited URLs.
func (f *Frontier) VisitedCount() uint {
	return f.visited.EstimatedCount()
}

// Next returns the next level: up to maxPerLevel unvisited candidates in
// offer order, all marked visited. Candidates beyond the cap stay queued.
func (f *Frontier) Next() []string {
	var level, rest []string
	for _, u := range f.candidates {
		if f.maxPerLevel > 0 && len(level) >= f.maxPerLevel {
			rest = append(rest, u)
			continue
		}
		if f.Visit(u) {
			level = append(level, u)
		}
	}
	f.candidates = rest
	return level
}

// Len returns the number of queued candidates, visited or not.
func (f *Frontier) Len() int {
	return len(f.candidates)
}
