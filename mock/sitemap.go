package mock

import (
	"context"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of mepdir.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *mepdir.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *mepdir.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
