// Package goquery implements link and content extraction from HTML
// using goquery and cascadia CSS selectors.
package goquery

import (
	"iter"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

var _ harvest.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor yields the hyperlinks of a page that match a URL pattern.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses html once and returns a sequence over its anchors.
// Each href is resolved against baseURL and normalized; it is yielded only
// if it matches pattern. Iterating the sequence has no side effects, so it
// can be ranged over more than once.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) iter.Seq[string] {
	base, err := url.Parse(baseURL)
	if err != nil {
		return noLinks
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return noLinks
	}
	anchors := doc.Find("a[href]")

	return func(yield func(string) bool) {
		for _, sel := range anchors.EachIter() {
			href, _ := sel.Attr("href")
			link, ok := resolveLink(base, baseURL, href)
			if !ok {
				continue
			}
			if pattern != nil && !pattern.MatchString(link) {
				continue
			}
			if !yield(link) {
				return
			}
		}
	}
}

func noLinks(func(string) bool) {}

// resolveLink resolves href against base, whose raw form is baseURL, and
// normalizes the result. Empty, unparseable and non-HTTP hrefs are rejected.
func resolveLink(base *url.URL, baseURL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := href
	if !ref.IsAbs() {
		resolved = resolveReference(base, ref, baseURL, href)
	}

	link, err := harvest.NormalizeURL(resolved)
	if err != nil {
		return "", false
	}
	return link, true
}

// resolveReference joins a relative href onto base. When neither side
// carries percent escapes the path is written with its decoded characters,
// so "é" or a space in a link stays as the page wrote it. Otherwise the
// escaped form from url.URL.String is used.
func resolveReference(base, ref *url.URL, baseURL, href string) string {
	u := base.ResolveReference(ref)
	if strings.Contains(baseURL, "%") || strings.Contains(href, "%") {
		return u.String()
	}

	var b strings.Builder
	b.WriteString(u.Scheme + "://")
	if u.User != nil {
		b.WriteString(u.User.String() + "@")
	}
	b.WriteString(u.Host)
	b.WriteString(u.Path)
	if u.ForceQuery || u.RawQuery != "" {
		b.WriteString("?" + u.RawQuery)
	}
	return b.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
