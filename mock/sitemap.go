package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of harvest.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, req harvest.SitemapRequest) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, req harvest.SitemapRequest) ([]string, error) {
	return s.DiscoverURLsFn(ctx, req)
}
