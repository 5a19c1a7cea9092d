package harvest

import "context"

// Fetcher retrieves page markup from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body as text.
	// Transport errors, timeouts and non-2xx responses are all errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
