package harvest

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers URLs from website sitemaps.
// The crawler uses it to seed the frontier beyond the start URL.
type SitemapService interface {
	// DiscoverURLs reads the sitemaps named by req and returns the page
	// URLs they list that pass req.Filter. Sitemap indexes are resolved
	// recursively. The service never reads robots.txt itself; callers pass
	// the locations their RobotsPolicy declares.
	DiscoverURLs(ctx context.Context, req SitemapRequest) ([]string, error)
}

// SitemapRequest describes one sitemap discovery.
type SitemapRequest struct {
	// BaseURL is the site whose /sitemap.xml is tried when Locations is empty.
	BaseURL string

	// Locations are sitemap URLs, usually from robots.txt Sitemap lines.
	Locations []string

	// Filter selects the returned URLs. If nil, all URLs are returned.
	Filter *URLFilter

	// Wait, if set, is called before every sitemap document request.
	// A non-nil error aborts the discovery.
	Wait func(ctx context.Context, url string) error
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, func(re *regexp.Regexp) bool {
		return re.MatchString(url)
	}) {
		return false
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
