package http

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/temoto/robotstxt"
)

var _ harvest.RobotsLoader = (*RobotsLoader)(nil)

// RobotsLoader loads robots.txt policies over HTTP.
type RobotsLoader struct {
	client *Client
}

// NewRobotsLoader creates a new RobotsLoader. If client is nil a default
// Client is used.
func NewRobotsLoader(client *Client) *RobotsLoader {
	if client == nil {
		client = NewClient()
	}
	return &RobotsLoader{client: client}
}

// Load fetches <origin>/robots.txt and returns the policy for user-agent "*".
// A non-2xx response or a network failure is returned as an error.
func (l *RobotsLoader) Load(ctx context.Context, origin string) (harvest.RobotsPolicy, error) {
	data, err := l.client.robots(ctx, origin)
	if err != nil {
		return nil, err
	}
	return &RobotsPolicy{group: data.FindGroup("*"), sitemaps: data.Sitemaps}, nil
}

var _ harvest.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is the parsed robots.txt group that applies to the crawler.
type RobotsPolicy struct {
	group    *robotstxt.Group
	sitemaps []string
}

// CanFetch reports whether the rules permit fetching rawURL.
// Rules are matched against the URL's path and query.
func (p *RobotsPolicy) CanFetch(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return p.group.Test(u.RequestURI())
}

// CrawlDelay returns the Crawl-delay declared for the group, if any.
func (p *RobotsPolicy) CrawlDelay() (time.Duration, bool) {
	if p.group.CrawlDelay <= 0 {
		return 0, false
	}
	return p.group.CrawlDelay, true
}

// Sitemaps returns the Sitemap locations listed in robots.txt, in file order.
func (p *RobotsPolicy) Sitemaps() []string {
	return p.sitemaps
}

// robots fetches and parses <origin>/robots.txt.
func (c *Client) robots(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid origin %q: %v", origin, err)
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	resp, err := c.get(ctx, robotsURL.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(c.limit(resp.Body, robotsURL.String()))
	if err != nil {
		return nil, err
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "parsing robots.txt: %v", err)
	}
	return data, nil
}
