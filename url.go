package harvest

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the deduplication key for rawURL: the URL with its
// fragment removed. Everything before the "#" is kept byte for byte, so
// non-ASCII characters and spaces are never percent-encoded.
// NormalizeURL is idempotent.
func NormalizeURL(rawURL string) (string, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %v", rawURL, err)
	}
	key, _, _ := strings.Cut(rawURL, "#")
	return key, nil
}

// Origin returns the scheme and host of rawURL, e.g. "https://example.com".
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "url %q has no origin", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
