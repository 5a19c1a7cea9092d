package mock

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
)

var _ harvest.RobotsLoader = (*RobotsLoader)(nil)

// RobotsLoader is a mock implementation of harvest.RobotsLoader.
type RobotsLoader struct {
	LoadFn func(ctx context.Context, origin string) (harvest.RobotsPolicy, error)
}

func (l *RobotsLoader) Load(ctx context.Context, origin string) (harvest.RobotsPolicy, error) {
	return l.LoadFn(ctx, origin)
}

var _ harvest.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of harvest.RobotsPolicy.
type RobotsPolicy struct {
	CanFetchFn   func(url string) bool
	CrawlDelayFn func() (time.Duration, bool)
	SitemapsFn   func() []string
}

func (p *RobotsPolicy) CanFetch(url string) bool {
	return p.CanFetchFn(url)
}

func (p *RobotsPolicy) CrawlDelay() (time.Duration, bool) {
	return p.CrawlDelayFn()
}

func (p *RobotsPolicy) Sitemaps() []string {
	return p.SitemapsFn()
}
