// Package http implements the crawler's network collaborators on top of
// net/http: page fetching, robots.txt loading and sitemap discovery.
// Pages are fetched as static markup; no JavaScript is executed.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to the sites it visits.
const DefaultUserAgent = "harvest/1.0"

// DefaultMaxBodySize caps the number of bytes read from a single response.
const DefaultMaxBodySize = 10 << 20

// Client issues GET requests with a fixed User-Agent and rejects
// non-2xx responses. It is shared by Fetcher, RobotsLoader and
// SitemapService so all requests of a crawl identify themselves the same way.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient uses hc for requests instead of a client built from the
// timeout option. Useful with httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// get performs a GET request. The caller must close the response body.
// A non-2xx status is returned as EUNAVAILABLE.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid request URL %q: %v", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	return resp, nil
}

// limit wraps the body of the response for url with the client's size
// cap. Reading past the cap fails with EUNAVAILABLE rather than
// returning a silently truncated body.
func (c *Client) limit(r io.Reader, url string) io.Reader {
	if c.maxBodySize <= 0 {
		return r
	}
	return &cappedBody{
		r:   io.LimitReader(r, c.maxBodySize+1),
		max: c.maxBodySize,
		url: url,
	}
}

// cappedBody reads at most max bytes and reports an error once the
// underlying reader offers more.
type cappedBody struct {
	r    io.Reader
	max  int64
	read int64
	url  string
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += int64(n)
	if b.read > b.max {
		return 0, harvest.Errorf(harvest.EUNAVAILABLE, "response body of %s exceeds %d bytes", b.url, b.max)
	}
	return n, err
}
