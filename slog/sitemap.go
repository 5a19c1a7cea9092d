package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

var _ harvest.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. Every sitemap
// document request is logged at debug level; the discovery as a whole is
// logged at info, or at warn when it fails.
type LoggingSitemapService struct {
	next   harvest.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next harvest.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, req harvest.SitemapRequest) (urls []string, err error) {
	requests := 0
	wait := req.Wait
	req.Wait = func(ctx context.Context, url string) error {
		requests++
		s.logger.Debug("sitemap request", "url", url)
		if wait == nil {
			return nil
		}
		return wait(ctx, url)
	}

	defer func(begin time.Time) {
		source := "robots.txt"
		if len(req.Locations) == 0 {
			source = "sitemap.xml"
		}
		attrs := []any{
			"site", req.BaseURL,
			"source", source,
			"requests", requests,
			"count", len(urls),
			"duration", time.Since(begin),
		}
		if err != nil {
			s.logger.Warn("sitemap discovery failed", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap discovery", attrs...)
	}(time.Now())

	return s.next.DiscoverURLs(ctx, req)
}
