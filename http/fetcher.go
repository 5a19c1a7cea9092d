package http

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/harvest"
	"golang.org/x/net/html/charset"
)

// Ensure Fetcher implements harvest.Fetcher at compile time.
var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page markup with plain HTTP GET requests.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a new Fetcher. If client is nil a default Client is used.
func NewFetcher(client *Client) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the markup at url, decoded to UTF-8 according to the
// response's declared or sniffed character set.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	r, err := charset.NewReader(f.client.limit(resp.Body, url), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
