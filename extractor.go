package harvest

import (
	"iter"
	"regexp"
)

// LinkExtractor discovers candidate outbound links in page markup.
type LinkExtractor interface {
	// ExtractLinks returns the links of html, resolved against baseURL and
	// normalized, that match pattern. A nil pattern matches every link.
	// Links are yielded in document order. The sequence is finite and may be
	// iterated repeatedly. Unparseable markup or base URLs yield an empty
	// sequence.
	ExtractLinks(html string, baseURL string, pattern *regexp.Regexp) iter.Seq[string]
}

// Content is the text pulled out of one page.
type Content struct {
	// Title is the text of the document's <title> element.
	// Empty when the document has no title.
	Title string

	// Text is the whitespace-normalized text of every element matching
	// the selector, joined with single spaces in document order.
	Text string
}

// ContentExtractor pulls the title and selected text out of page markup.
type ContentExtractor interface {
	// ExtractContent returns the title and the text of all elements in html
	// matching selector. No match yields empty Text, not an error.
	ExtractContent(html string, selector string) (*Content, error)
}
