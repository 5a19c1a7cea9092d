package mock

import (
	"iter"
	"regexp"

	"github.com/fwojciec/harvest"
)

var _ harvest.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of harvest.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string, pattern *regexp.Regexp) iter.Seq[string]
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) iter.Seq[string] {
	return e.ExtractLinksFn(html, baseURL, pattern)
}

var _ harvest.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of harvest.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string, selector string) (*harvest.Content, error)
}

func (e *ContentExtractor) ExtractContent(html string, selector string) (*harvest.Content, error) {
	return e.ExtractContentFn(html, selector)
}
