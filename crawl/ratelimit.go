package crawl

import (
	"context"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"golang.org/x/time/rate"
)

var _ harvest.RateLimiter = (*HostLimiter)(nil)

// HostLimiter paces requests with one token bucket per host. URLs that
// differ only in host case or in an explicit default port share a bucket.
type HostLimiter struct {
	limit rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewHostLimiter returns a limiter allowing rps requests per second to each
// host, without bursts. A non-positive rps disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HostLimiter{
		limit:   limit,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to the host of rawURL is allowed.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	key, err := hostKey(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(key).Wait(ctx)
}

// Hosts returns the number of hosts seen so far.
func (l *HostLimiter) Hosts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *HostLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, 1)
		l.buckets[key] = b
	}
	return b
}

// hostKey returns the lowercase host of rawURL, keeping the port only
// when it is not the scheme's default.
func hostKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", harvest.Errorf(harvest.EINVALID, "cannot rate limit %q: no host", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	switch port := u.Port(); {
	case port == "":
	case port == "80" && u.Scheme == "http", port == "443" && u.Scheme == "https":
	default:
		host = net.JoinHostPort(host, port)
	}
	return host, nil
}
