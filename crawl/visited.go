package crawl

import "github.com/fwojciec/harvest/bloom"

// Visited set sizing for the Bloom pre-filter.
const (
	// visitedExpectedURLs is the expected number of URLs for Bloom filter sizing.
	visitedExpectedURLs = 10000
	// visitedFalsePositiveRate is the acceptable false positive rate of the pre-filter.
	visitedFalsePositiveRate = 0.01
)

// VisitState records what happened to a URL in the visited set.
type VisitState int

const (
	// VisitDispatched means the URL was handed to the fetcher.
	VisitDispatched VisitState = iota + 1
	// VisitFetched means the fetch succeeded and the page was processed.
	VisitFetched
	// VisitFailed means the fetch failed; the URL is never retried.
	VisitFailed
	// VisitDisallowed means robots.txt denied the URL; it was never fetched.
	VisitDisallowed
)

func (s VisitState) String() string {
	switch s {
	case VisitDispatched:
		return "dispatched"
	case VisitFetched:
		return "fetched"
	case VisitFailed:
		return "failed"
	case VisitDisallowed:
		return "disallowed"
	default:
		return "unknown"
	}
}

// VisitedSet is the set of normalized URLs the crawler has already decided on.
// It only grows. A Bloom filter answers most negative lookups before the
// exact map is consulted. It is not safe for concurrent use.
type VisitedSet struct {
	filter     *bloom.Filter
	states     map[string]VisitState
	dispatched int
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewFilter(visitedExpectedURLs, visitedFalsePositiveRate),
		states: make(map[string]VisitState),
	}
}

// Contains reports whether url has been added in any state.
func (s *VisitedSet) Contains(url string) bool {
	if !s.filter.MayContain(url) {
		return false
	}
	_, ok := s.states[url]
	return ok
}

// Add records url in the given state.
// Returns false, leaving the set unchanged, if url is already present.
func (s *VisitedSet) Add(url string, state VisitState) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.Add(url)
	s.states[url] = state
	if state != VisitDisallowed {
		s.dispatched++
	}
	return true
}

// Resolve updates the state of a dispatched URL to its outcome.
// URLs that were never added are ignored.
func (s *VisitedSet) Resolve(url string, state VisitState) {
	if _, ok := s.states[url]; ok {
		s.states[url] = state
	}
}

// State returns the recorded state of url.
func (s *VisitedSet) State(url string) (VisitState, bool) {
	state, ok := s.states[url]
	return state, ok
}

// Len returns the number of URLs in the set, in any state.
func (s *VisitedSet) Len() int {
	return len(s.states)
}

// Dispatched returns the number of URLs handed to the fetcher.
// Disallowed URLs are not counted.
func (s *VisitedSet) Dispatched() int {
	return s.dispatched
}
