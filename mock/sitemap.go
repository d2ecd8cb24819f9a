package mock

import (
	"context"

	"github.com/fwojciec/parsekit"
)

var _ parsekit.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of parsekit.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *parsekit.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *parsekit.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
