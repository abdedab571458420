package mock

import (
	"context"

	"github.com/fwojciec/pagescout"
)

var _ pagescout.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pagescout.SitemapService.
type SitemapService struct {
	DiscoverFn func(ctx context.Context, baseURL string) ([]*pagescout.DiscoveredPage, error)
}

func (s *SitemapService) Discover(ctx context.Context, baseURL string) ([]*pagescout.DiscoveredPage, error) {
	return s.DiscoverFn(ctx, baseURL)
}
