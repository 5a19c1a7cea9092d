package goquery

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/harvest"
	"golang.org/x/net/html"
)

var _ harvest.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor extracts a page's title and the text of the elements
// matching a CSS selector. Compiled selectors are cached, so one extractor
// can serve a whole crawl cheaply. It is safe for concurrent use.
type ContentExtractor struct {
	mu        sync.Mutex
	selectors map[string]cascadia.Selector
}

// NewContentExtractor creates a new ContentExtractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		selectors: make(map[string]cascadia.Selector),
	}
}

// CompileSelector parses a CSS selector.
// Returns EINVALID if the selector is malformed.
func CompileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return sel, nil
}

// ExtractContent returns the document title and the concatenated text of
// every element matching selector, in document order.
func (e *ContentExtractor) ExtractContent(htmlStr string, selector string) (*harvest.Content, error) {
	sel, err := e.compile(selector)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	var parts []string
	for _, n := range doc.FindMatcher(sel).Nodes {
		if text := nodeText(n); text != "" {
			parts = append(parts, text)
		}
	}

	return &harvest.Content{
		Title: collapseSpace(doc.Find("title").First().Text()),
		Text:  strings.Join(parts, " "),
	}, nil
}

func (e *ContentExtractor) compile(selector string) (cascadia.Selector, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sel, ok := e.selectors[selector]; ok {
		return sel, nil
	}
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}
	e.selectors[selector] = sel
	return sel, nil
}

// nodeText joins the descendant text of n with single spaces.
// Script, style and template bodies are not visible text and are skipped.
func nodeText(n *html.Node) string {
	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template":
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(words, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
