package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of harvest.ResultWriter.
type ResultWriter struct {
	WriteResultsFn func(ctx context.Context, results []*harvest.PageResult) error
}

func (w *ResultWriter) WriteResults(ctx context.Context, results []*harvest.PageResult) error {
	return w.WriteResultsFn(ctx, results)
}
