package harvest

import "context"

// URLFrontier is the queue of normalized URLs waiting to be visited.
type URLFrontier interface {
	// Push appends a URL to the tail of the frontier.
	Push(url string)

	// Pop removes and returns the URL at the head of the frontier.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int
}

// RateLimiter paces requests per host.
type RateLimiter interface {
	// Wait blocks until a request to the host of url is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, url string) error
}
