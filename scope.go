package pagescout

import (
	"net/url"
	"strings"
)

// Scope narrows a discovery result to what an audit will process.
// Pages whose path starts with any of ExcludedPaths are dropped, then the
// remaining list is cut to PageLimit entries (0 means no limit).
type Scope struct {
	ExcludedPaths []string
	PageLimit     int
}

// Apply returns the pages inside the scope, preserving their order.
func (s Scope) Apply(pages []*DiscoveredPage) []*DiscoveredPage {
	out := make([]*DiscoveredPage, 0, len(pages))
	for _, p := range pages {
		if s.excluded(p.URL) {
			continue
		}
		out = append(out, p)
	}
	if s.PageLimit > 0 && len(out) > s.PageLimit {
		out = out[:s.PageLimit]
	}
	return out
}

func (s Scope) excluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	for _, prefix := range s.ExcludedPaths {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
