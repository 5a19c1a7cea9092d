package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of harvest.URLFrontier.
type URLFrontier struct {
	PushFn func(url string)
	PopFn  func() (string, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(url string) {
	f.PushFn(url)
}

func (f *URLFrontier) Pop() (string, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ harvest.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of harvest.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context, url string) error
}

func (l *RateLimiter) Wait(ctx context.Context, url string) error {
	return l.WaitFn(ctx, url)
}
