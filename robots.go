package harvest

import (
	"context"
	"time"
)

// RobotsPolicy answers robots-exclusion queries for a single site
// on behalf of the generic user-agent "*".
type RobotsPolicy interface {
	// CanFetch reports whether the URL may be fetched.
	CanFetch(url string) bool

	// CrawlDelay returns the declared delay between requests.
	// The bool result is false when the policy declares no delay.
	CrawlDelay() (time.Duration, bool)

	// Sitemaps returns the sitemap locations declared by Sitemap lines.
	Sitemaps() []string
}

// RobotsLoader loads the robots policy of an origin from <origin>/robots.txt.
type RobotsLoader interface {
	// Load fetches and parses the policy for origin (e.g. "https://example.com").
	// A missing or unreachable robots.txt is reported as an error; callers
	// are expected to fall back to Unrestricted.
	Load(ctx context.Context, origin string) (RobotsPolicy, error)
}

// Unrestricted is a RobotsPolicy that permits everything, declares no
// delay and lists no sitemaps.
var Unrestricted RobotsPolicy = unrestricted{}

type unrestricted struct{}

func (unrestricted) CanFetch(string) bool { return true }

func (unrestricted) CrawlDelay() (time.Duration, bool) { return 0, false }

func (unrestricted) Sitemaps() []string { return nil }
