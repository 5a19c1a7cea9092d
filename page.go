package harvest

import "context"

// PageResult is the extracted record for one successfully fetched page.
type PageResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	TextContent string `json:"text_content"`
}

// Validate returns an error if the result contains invalid fields.
func (p *PageResult) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page url required")
	}
	return nil
}

// ResultWriter persists the results of a crawl run.
// WriteResults is called exactly once, after the crawl loop ends,
// with the complete (possibly empty) list of results.
type ResultWriter interface {
	WriteResults(ctx context.Context, results []*PageResult) error
}
