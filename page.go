package pagescout

import (
	"context"
	"fmt"
	"time"
)

// Source identifies which discovery source registered a page.
// The ordinal doubles as the sort priority: lower values sort first.
type Source int

// Discovery sources in priority order.
const (
	SourceHomepage     Source = 0
	SourceSitemap      Source = 1
	SourceInternalLink Source = 2
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceHomepage:
		return "homepage"
	case SourceSitemap:
		return "sitemap"
	case SourceInternalLink:
		return "internal-link"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	switch s {
	case SourceHomepage, SourceSitemap, SourceInternalLink:
		return []byte(s.String()), nil
	}
	return nil, Errorf(EINVALID, "unknown page source %d", int(s))
}

// UnmarshalText decodes a source name.
func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "homepage":
		*s = SourceHomepage
	case "sitemap":
		*s = SourceSitemap
	case "internal-link":
		*s = SourceInternalLink
	default:
		return Errorf(EINVALID, "unknown page source %q", string(text))
	}
	return nil
}

// DiscoveredPage is a page that belongs to the audited site.
// URL keeps the form it was found in; identity is NormalizeKey(URL).
type DiscoveredPage struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	Source       Source `json:"source"`
}

// SourceCounts counts pages accepted into the result per source.
// A page found by several sources is counted once, for the source that
// registered it first.
type SourceCounts struct {
	Sitemap       int `json:"sitemap"`
	InternalLinks int `json:"internalLinks"`
	Homepage      int `json:"homepage"`
}

// Result is the outcome of one discovery run.
type Result struct {
	RunID      string            `json:"runId"`
	Pages      []*DiscoveredPage `json:"pages"`
	TotalFound int               `json:"totalFound"`
	Sources    SourceCounts      `json:"sources"`
	Duration   time.Duration     `json:"duration"`
}

// DefaultMaxPages is the page cap used when the caller passes zero.
const DefaultMaxPages = 100

// PageDiscoverer enumerates the pages of a site.
type PageDiscoverer interface {
	// DiscoverPages returns at most maxPages pages for baseURL.
	// It never fails: when every source fails the result holds the
	// homepage alone. maxPages <= 0 means DefaultMaxPages.
	DiscoverPages(ctx context.Context, baseURL string, maxPages int) *Result
}
