package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parsekit"
)

// Ensure LoggingSitemapService implements parsekit.SitemapService.
var _ parsekit.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   parsekit.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next parsekit.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *parsekit.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"site", siteURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
		}
		s.logger.Log(ctx, level(err), "sitemap discovery", append(attrs, errorAttrs(err)...)...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, siteURL, filter)
}
