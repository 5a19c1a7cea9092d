package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkResultStore_WriteResults archives a run of pages per iteration,
// simulating the single write at the end of a crawl.
func BenchmarkResultStore_WriteResults(b *testing.B) {
	for _, pages := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("pages=%d", pages), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			results := make([]*harvest.PageResult, pages)
			for i := range results {
				results[i] = &harvest.PageResult{
					Title:       fmt.Sprintf("Page %d", i),
					URL:         fmt.Sprintf("https://example.com/docs/page%d", i),
					TextContent: fmt.Sprintf("Content for page %d. Lorem ipsum dolor sit amet.", i),
				}
			}

			store := sqlite.NewResultStore(db, "https://example.com/docs")
			ctx := context.Background()

			b.ResetTimer()
			for b.Loop() {
				if err := store.WriteResults(ctx, results); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
