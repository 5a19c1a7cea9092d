package http

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/harvest"
)

// maxSitemaps bounds how many sitemap documents one discovery may read,
// including those referenced from sitemap indexes.
const maxSitemaps = 50

var _ harvest.SitemapService = (*SitemapService)(nil)

// SitemapService reads sitemaps over HTTP.
type SitemapService struct {
	client *Client
}

// NewSitemapService creates a new SitemapService. If client is nil a
// default Client is used.
func NewSitemapService(client *Client) *SitemapService {
	if client == nil {
		client = NewClient()
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs listed in the sitemaps at
// req.Locations, in sitemap order and without duplicates. With no
// locations it tries /sitemap.xml at the root of req.BaseURL; a failure
// there means the site has no sitemap and yields an empty result.
func (s *SitemapService) DiscoverURLs(ctx context.Context, req harvest.SitemapRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &discovery{
		service: s,
		wait:    req.Wait,
		seen:    make(map[string]bool),
	}

	locations := req.Locations
	fallback := len(locations) == 0
	if fallback {
		base, err := url.Parse(req.BaseURL)
		if err != nil || base.Host == "" {
			return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL %q", req.BaseURL)
		}
		root := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/sitemap.xml"}
		locations = []string{root.String()}
	}

	urls := []string{}
	listed := make(map[string]bool)
	for _, loc := range locations {
		found, err := d.read(ctx, loc)
		if err != nil {
			if fallback && ctx.Err() == nil {
				return urls, nil
			}
			return nil, err
		}
		for _, u := range found {
			if listed[u] {
				continue
			}
			listed[u] = true
			if !req.Filter.Match(u) {
				continue
			}
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// discovery tracks the sitemap documents read by one DiscoverURLs call.
type discovery struct {
	service *SitemapService
	wait    func(ctx context.Context, url string) error
	seen    map[string]bool
}

// read fetches one sitemap document and returns the page URLs it lists,
// following <sitemapindex> entries depth-first.
func (d *discovery) read(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.seen[sitemapURL] || len(d.seen) >= maxSitemaps {
		return nil, nil
	}
	d.seen[sitemapURL] = true

	root, err := d.fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}

	var urls []string
	for _, loc := range locs(root, "sitemap") {
		found, err := d.read(ctx, loc)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// fetch waits for its turn, downloads sitemapURL and returns the XML root.
func (d *discovery) fetch(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	if d.wait != nil {
		if err := d.wait(ctx, sitemapURL); err != nil {
			return nil, err
		}
	}

	client := d.service.client
	resp, err := client.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(client.limit(resp.Body, sitemapURL)); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, harvest.Errorf(harvest.EINVALID, "empty sitemap XML at %s", sitemapURL)
	}
	return root, nil
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
