// Package crawl provides the crawl control loop.
// It owns the frontier and visited set of a run, consults the robots policy,
// and coordinates fetching, extraction and persistence of pages.
package crawl

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/fwojciec/harvest"
)

// Crawler holds the collaborators shared by crawl sessions.
// A Crawler may start any number of independent sessions.
type Crawler struct {
	Fetcher harvest.Fetcher
	Robots  harvest.RobotsLoader
	Links   harvest.LinkExtractor
	Content harvest.ContentExtractor
	Results harvest.ResultWriter

	// Sitemaps, if set, seeds the frontier with matching sitemap URLs.
	Sitemaps harvest.SitemapService

	// RateLimiter, if set, is waited on before every request in addition
	// to the robots.txt crawl delay.
	RateLimiter harvest.RateLimiter

	// Sleep pauses the crawl. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// NewFrontier creates the frontier of each session.
	// Defaults to an in-memory FIFO queue.
	NewFrontier func() harvest.URLFrontier
}

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary holds the outcome of a crawl session.
type Summary struct {
	State      State
	Saved      int // pages fetched and recorded
	Failed     int // fetches that failed
	Disallowed int // URLs denied by robots.txt
	Invalid    int // frontier entries that could not be normalized
	Bytes      int // markup bytes fetched
	Duplicates int // saved pages whose text matched an earlier page
}

// ProgressEvent reports progress during a crawl session.
type ProgressEvent struct {
	Type     ProgressType
	URL      string
	Visited  int
	MaxPages int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressFetching
	ProgressCompleted
	ProgressFailed
	ProgressDisallowed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Session is a single crawl run. It owns the frontier, the visited set and
// the results for the run's duration. A Session runs at most once.
type Session struct {
	crawler *Crawler
	config  harvest.Config
	pattern *regexp.Regexp
	seed    string
	origin  string
	policy  harvest.RobotsPolicy

	// robotsErr is the robots.txt load failure, if any.
	robotsErr error

	state    State
	frontier harvest.URLFrontier
	visited  *VisitedSet
	results  []*harvest.PageResult
	hashes   map[uint64]struct{}
	summary  Summary
}

// NewSession validates cfg and loads the robots policy of the start URL's
// origin. The returned session is idle. An invalid configuration, including
// an unparseable start URL, is reported as EINVALID before any fetch.
func (c *Crawler) NewSession(ctx context.Context, cfg harvest.Config) (*Session, error) {
	if c.Fetcher == nil || c.Links == nil || c.Content == nil || c.Results == nil {
		return nil, harvest.Errorf(harvest.EINVALID, "crawler requires a fetcher, extractors and a result writer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pattern, err := cfg.Pattern()
	if err != nil {
		return nil, err
	}
	seed, err := harvest.NormalizeURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	origin, err := harvest.Origin(seed)
	if err != nil {
		return nil, err
	}

	s := &Session{
		crawler:  c,
		config:   cfg,
		pattern:  pattern,
		seed:     seed,
		origin:   origin,
		policy:   harvest.Unrestricted,
		state:    StateIdle,
		frontier: c.newFrontier(),
		visited:  NewVisitedSet(),
		results:  []*harvest.PageResult{},
		hashes:   make(map[uint64]struct{}),
	}

	if c.Robots != nil {
		policy, err := c.Robots.Load(ctx, origin)
		if err != nil {
			s.robotsErr = err
		} else if policy != nil {
			s.policy = policy
		}
	}

	return s, nil
}

func (c *Crawler) newFrontier() harvest.URLFrontier {
	if c.NewFrontier != nil {
		return c.NewFrontier()
	}
	return NewFrontier()
}

// Crawl creates a session for cfg and runs it.
func (c *Crawler) Crawl(ctx context.Context, cfg harvest.Config, progress ProgressFunc) (*Summary, error) {
	s, err := c.NewSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, progress)
}

// State returns the lifecycle state of the session.
func (s *Session) State() State {
	return s.state
}

// RobotsErr returns the error from loading robots.txt, or nil. When it is
// non-nil the session crawls without robots restrictions.
func (s *Session) RobotsErr() error {
	return s.robotsErr
}

// Results returns the pages recorded so far.
func (s *Session) Results() []*harvest.PageResult {
	return s.results
}

// Visited returns the session's visited set.
func (s *Session) Visited() *VisitedSet {
	return s.visited
}

// Run executes the crawl loop until the frontier is empty or the page budget
// is spent, then writes the results exactly once.
//
// Pages are visited one at a time in FIFO order. Fetch failures and robots
// denials are recorded and skipped; they never abort the run. If ctx is
// canceled the loop stops early, the results gathered so far are still
// written, and the context error is returned. A write failure is returned
// as an error and leaves the session in StateFailed.
func (s *Session) Run(ctx context.Context, progress ProgressFunc) (*Summary, error) {
	if s.state != StateIdle {
		return nil, harvest.Errorf(harvest.ECONFLICT, "crawl session is %s", s.state)
	}
	s.state = StateRunning

	s.notify(progress, ProgressEvent{Type: ProgressStarted, URL: s.seed})

	s.frontier.Push(s.seed)
	s.seedFromSitemaps(ctx)

	var runErr error
	for s.frontier.Len() > 0 && s.visited.Dispatched() < s.config.MaxPages {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		next, ok := s.frontier.Pop()
		if !ok {
			break
		}
		if err := s.visit(ctx, next, progress); err != nil {
			runErr = err
			break
		}
	}

	// Persist even when the loop was interrupted so gathered pages are not lost.
	if err := s.crawler.Results.WriteResults(context.WithoutCancel(ctx), s.results); err != nil {
		s.state = StateFailed
		s.summary.State = s.state
		return &s.summary, fmt.Errorf("write results: %w", err)
	}

	if runErr != nil {
		s.state = StateFailed
	} else {
		s.state = StateCompleted
	}
	s.summary.State = s.state

	s.notify(progress, ProgressEvent{Type: ProgressFinished})

	return &s.summary, runErr
}

// visit processes one frontier entry. Only context errors are returned;
// every other failure is recorded and skipped.
func (s *Session) visit(ctx context.Context, next string, progress ProgressFunc) error {
	key, err := harvest.NormalizeURL(next)
	if err != nil {
		s.summary.Invalid++
		return nil
	}

	if s.visited.Contains(key) {
		return nil
	}

	if !s.policy.CanFetch(key) {
		s.visited.Add(key, VisitDisallowed)
		s.summary.Disallowed++
		s.notify(progress, ProgressEvent{Type: ProgressDisallowed, URL: key})
		return nil
	}

	if err := s.throttle(ctx, key); err != nil {
		return err
	}

	s.visited.Add(key, VisitDispatched)
	s.notify(progress, ProgressEvent{Type: ProgressFetching, URL: key})

	html, err := s.crawler.Fetcher.Fetch(ctx, key)
	if err != nil {
		s.visited.Resolve(key, VisitFailed)
		s.summary.Failed++
		s.notify(progress, ProgressEvent{Type: ProgressFailed, URL: key, Error: err})
		return ctx.Err()
	}
	s.visited.Resolve(key, VisitFetched)

	// Unparseable markup is treated as a page without content.
	content, err := s.crawler.Content.ExtractContent(html, s.config.Selector)
	if err != nil || content == nil {
		content = &harvest.Content{}
	}

	title := content.Title
	if title == "" {
		title = next
	}
	s.results = append(s.results, &harvest.PageResult{
		Title:       title,
		URL:         next,
		TextContent: content.Text,
	})
	s.summary.Saved++
	s.summary.Bytes += len(html)

	h := textHash(content.Text)
	if _, ok := s.hashes[h]; ok {
		s.summary.Duplicates++
	}
	s.hashes[h] = struct{}{}

	// Already-visited links are filtered when they are popped.
	for link := range s.crawler.Links.ExtractLinks(html, next, s.pattern) {
		s.frontier.Push(link)
	}

	s.notify(progress, ProgressEvent{Type: ProgressCompleted, URL: key})
	return nil
}

// throttle blocks for the robots.txt crawl delay, then for the optional
// rate limiter. The pause holds up the whole crawl, not just this request.
func (s *Session) throttle(ctx context.Context, key string) error {
	if delay, ok := s.policy.CrawlDelay(); ok && delay > 0 {
		sleep := s.crawler.Sleep
		if sleep == nil {
			sleep = sleepContext
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	if s.crawler.RateLimiter != nil {
		return s.crawler.RateLimiter.Wait(ctx, key)
	}
	return nil
}

// seedFromSitemaps appends matching sitemap URLs to the frontier. The
// sitemap locations come from the already loaded robots policy, and every
// sitemap request is throttled like a page fetch. Discovery errors are
// ignored; the crawl still has its seed.
func (s *Session) seedFromSitemaps(ctx context.Context) {
	if s.crawler.Sitemaps == nil {
		return
	}
	urls, err := s.crawler.Sitemaps.DiscoverURLs(ctx, harvest.SitemapRequest{
		BaseURL:   s.origin,
		Locations: s.policy.Sitemaps(),
		Filter:    &harvest.URLFilter{Include: []*regexp.Regexp{s.pattern}},
		Wait:      s.throttle,
	})
	if err != nil {
		return
	}
	for _, u := range urls {
		key, err := harvest.NormalizeURL(u)
		if err != nil || !s.pattern.MatchString(key) {
			continue
		}
		s.frontier.Push(key)
	}
}

func (s *Session) notify(progress ProgressFunc, event ProgressEvent) {
	if progress == nil {
		return
	}
	event.Visited = s.visited.Dispatched()
	event.MaxPages = s.config.MaxPages
	progress(event)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
