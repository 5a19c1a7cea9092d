package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/mock"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	// readTwo simulates a sitemap index pointing at one urlset.
	readTwo := func(ctx context.Context, req harvest.SitemapRequest) ([]string, error) {
		for _, u := range []string{"https://example.com/index.xml", "https://example.com/pages.xml"} {
			if err := req.Wait(ctx, u); err != nil {
				return nil, err
			}
		}
		return []string{"https://example.com/docs/a", "https://example.com/docs/b"}, nil
	}

	t.Run("logs robots.txt locations with request and URL counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		svc := harvestslog.NewLoggingSitemapService(&mock.SitemapService{DiscoverURLsFn: readTwo}, logger)

		urls, err := svc.DiscoverURLs(context.Background(), harvest.SitemapRequest{
			BaseURL:   "https://example.com",
			Locations: []string{"https://example.com/index.xml"},
		})

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "level=INFO msg=\"sitemap discovery\"")
		assert.Contains(t, output, "site=https://example.com")
		assert.Contains(t, output, "source=robots.txt")
		assert.Contains(t, output, "requests=2")
		assert.Contains(t, output, "count=2")
		assert.NotContains(t, output, "sitemap request")
	})

	t.Run("logs each request at debug level and still calls the caller's wait", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		svc := harvestslog.NewLoggingSitemapService(&mock.SitemapService{DiscoverURLsFn: readTwo}, logger)

		var waited []string
		_, err := svc.DiscoverURLs(context.Background(), harvest.SitemapRequest{
			BaseURL: "https://example.com",
			Wait: func(_ context.Context, url string) error {
				waited = append(waited, url)
				return nil
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/index.xml", "https://example.com/pages.xml"}, waited)
		output := buf.String()
		assert.Contains(t, output, "msg=\"sitemap request\" url=https://example.com/index.xml")
		assert.Contains(t, output, "msg=\"sitemap request\" url=https://example.com/pages.xml")
		assert.Contains(t, output, "source=sitemap.xml")
	})

	t.Run("warns when discovery fails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, harvest.SitemapRequest) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := harvestslog.NewLoggingSitemapService(inner, logger)
		_, err := svc.DiscoverURLs(context.Background(), harvest.SitemapRequest{BaseURL: "https://example.com"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN msg=\"sitemap discovery failed\"")
		assert.Contains(t, output, "err=\"connection failed\"")
	})
}
