package crawl

import "github.com/fwojciec/harvest"

// Compile-time interface verification.
var _ harvest.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO queue of URLs waiting to be visited.
// Duplicates are accepted; the crawler filters them when they are popped.
// It is not safe for concurrent use.
type Frontier struct {
	queue []string
	head  int
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{}
}

// Push appends a URL to the tail of the frontier.
func (f *Frontier) Push(url string) {
	f.queue = append(f.queue, url)
}

// Pop removes and returns the URL at the head of the frontier.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if f.head == len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 64 && f.head*2 >= len(f.queue) {
		f.queue = append(f.queue[:0], f.queue[f.head:]...)
		f.head = 0
	}
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}
