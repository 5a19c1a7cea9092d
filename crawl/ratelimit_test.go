package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("shares a bucket across host case and default ports", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)
		ctx := context.Background()

		require.NoError(t, limiter.Wait(ctx, "https://Example.com/a"))
		require.NoError(t, limiter.Wait(ctx, "https://example.com:443/b"))
		require.NoError(t, limiter.Wait(ctx, "http://example.com:80/c"))

		assert.Equal(t, 1, limiter.Hosts())
	})

	t.Run("keeps non-default ports apart", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(1)
		ctx := context.Background()

		require.NoError(t, limiter.Wait(ctx, "https://example.com/"))
		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "https://example.com:8443/"))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, 2, limiter.Hosts())
	})

	t.Run("delays a second request to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)
		ctx := context.Background()

		require.NoError(t, limiter.Wait(ctx, "https://example.com/docs/a"))
		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "https://EXAMPLE.com/docs/b"))

		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("does not limit when the rate is zero", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(0)
		ctx := context.Background()

		start := time.Now()
		for range 20 {
			require.NoError(t, limiter.Wait(ctx, "https://example.com/"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("rejects a URL without a host", func(t *testing.T) {
		t.Parallel()

		err := crawl.NewHostLimiter(1).Wait(context.Background(), "/relative/path")

		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("returns the context error while waiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "https://example.com/"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "https://example.com/next"))
	})
}

func TestHostLimiter_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("paces every fetch of a session", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.com/":  `<a href="/a">a</a><a href="/b">b</a>`,
			"https://example.com/a": `<p>a</p>`,
			"https://example.com/b": `<p>b</p>`,
		}}
		r := &recorder{}
		c := newCrawler(s, r)
		limiter := crawl.NewHostLimiter(20)
		c.RateLimiter = limiter

		start := time.Now()
		summary, err := c.Crawl(context.Background(), config("https://example.com/", "https://example.com/.*", 10), nil)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Saved)
		// Three fetches at 20 rps need at least two 50ms gaps.
		assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
		assert.Equal(t, 1, limiter.Hosts())
	})

	t.Run("stops the session when cancelled during a wait", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.com/":  `<a href="/a">a</a>`,
			"https://example.com/a": `<p>a</p>`,
		}}
		r := &recorder{}
		c := newCrawler(s, r)
		c.RateLimiter = crawl.NewHostLimiter(0.5)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		summary, err := c.Crawl(ctx, config("https://example.com/", "https://example.com/.*", 10), nil)

		require.Error(t, err)
		assert.Equal(t, crawl.StateFailed, summary.State)
		assert.Equal(t, []string{"https://example.com/"}, s.fetched)
		assert.Equal(t, 1, r.calls, "partial results are still written")
	})
}
