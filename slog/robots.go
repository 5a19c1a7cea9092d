package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingRobotsLoader implements harvest.RobotsLoader.
var _ harvest.RobotsLoader = (*LoggingRobotsLoader)(nil)

// LoggingRobotsLoader wraps a RobotsLoader with logging.
type LoggingRobotsLoader struct {
	next   harvest.RobotsLoader
	logger *slog.Logger
}

// NewLoggingRobotsLoader creates a new LoggingRobotsLoader.
func NewLoggingRobotsLoader(next harvest.RobotsLoader, logger *slog.Logger) *LoggingRobotsLoader {
	return &LoggingRobotsLoader{next: next, logger: logger}
}

// Load delegates to the wrapped loader and logs the operation.
func (l *LoggingRobotsLoader) Load(ctx context.Context, origin string) (policy harvest.RobotsPolicy, err error) {
	defer func(begin time.Time) {
		attrs := []any{"origin", origin, "duration", time.Since(begin)}
		if policy != nil {
			if delay, ok := policy.CrawlDelay(); ok {
				attrs = append(attrs, "crawl_delay", delay)
			}
			if n := len(policy.Sitemaps()); n > 0 {
				attrs = append(attrs, "sitemaps", n)
			}
		}
		if err != nil {
			l.logger.Warn("robots.txt unavailable, crawling unrestricted", append(attrs, "err", err)...)
			return
		}
		l.logger.Info("robots.txt loaded", attrs...)
	}(time.Now())
	return l.next.Load(ctx, origin)
}
