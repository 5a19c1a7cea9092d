package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/goquery"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config  *harvest.Config
	Crawler *crawl.Crawler

	// RunID reports the archived run ID when results go to SQLite.
	RunID func() string

	// Runs reads the archive opened by the runs and show commands.
	Runs harvest.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl CrawlCmd `cmd:"" default:"withargs" help:"Crawl a site and save the text of matching pages (default)"`
	Runs  RunsCmd  `cmd:"" help:"List the runs archived in a SQLite output"`
	Show  ShowCmd  `cmd:"" help:"Print the pages of an archived run"`
}

// maxURLWidth bounds the width of URLs in progress lines.
const maxURLWidth = 120

// CrawlCmd runs one crawl and reports its progress.
type CrawlCmd struct {
	Config    string        `short:"c" type:"existingfile" help:"JSON configuration file (url, match, selector, maxPagesToCrawl, outputFileName)"`
	URL       string        `short:"u" help:"Seed URL; overrides the config file"`
	Match     string        `short:"m" help:"Regular expression a link must match from its start to be followed"`
	Selector  string        `short:"s" help:"CSS selector of the content to extract"`
	MaxPages  int           `short:"n" help:"Maximum number of pages to fetch"`
	Output    string        `short:"o" help:"Output file; .db, .sqlite and .sqlite3 archive to SQLite, anything else writes JSON"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Fetch timeout per request"`
	UserAgent string        `default:"${user_agent}" help:"User-Agent header sent with every request"`
	Rate      float64       `help:"Maximum requests per second per host (0 = no limit beyond robots.txt)"`
	Sitemap   bool          `help:"Seed the crawl with matching URLs from the site's sitemaps"`
	Verbose   bool          `short:"v" help:"Log every request"`
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func (c *CrawlCmd) resolveConfig() (*harvest.Config, error) {
	cfg := &harvest.Config{}
	if c.Config != "" {
		f, err := os.Open(c.Config)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if cfg, err = harvest.LoadConfig(f); err != nil {
			return nil, err
		}
	}

	if c.URL != "" {
		cfg.URL = c.URL
	}
	if c.Match != "" {
		cfg.Match = c.Match
	}
	if c.Selector != "" {
		cfg.Selector = c.Selector
	}
	if c.MaxPages != 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.Output != "" {
		cfg.OutputFileName = c.Output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := goquery.CompileSelector(cfg.Selector); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run crawls deps.Config and prints a summary.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	sess, err := deps.Crawler.NewSession(deps.Ctx, *deps.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	summary, err := sess.Run(deps.Ctx, c.progress(deps))
	if summary != nil {
		c.printSummary(deps, summary)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}
	return nil
}

func (c *CrawlCmd) progress(deps *Dependencies) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressFetching:
			fmt.Fprintf(deps.Stdout, "[%d/%d] Scraping %s\n", e.Visited, e.MaxPages, crawl.TruncateURL(e.URL, maxURLWidth))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", e.URL, errorMessage(e.Error))
		case crawl.ProgressDisallowed:
			fmt.Fprintf(deps.Stderr, "skip %s: disallowed by robots.txt\n", e.URL)
		}
	}
}

func (c *CrawlCmd) printSummary(deps *Dependencies, s *crawl.Summary) {
	if s.Saved == 0 {
		fmt.Fprintln(deps.Stdout, "No pages saved")
	} else {
		fmt.Fprintf(deps.Stdout, "Saved %d pages (%s) to %s\n", s.Saved, crawl.FormatBytes(s.Bytes), deps.Config.OutputFileName)
	}
	if s.Failed > 0 || s.Disallowed > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d failed, %d disallowed\n", s.Failed, s.Disallowed)
	}
	if s.Duplicates > 0 {
		fmt.Fprintf(deps.Stdout, "%d pages repeated earlier content\n", s.Duplicates)
	}
	if deps.RunID != nil && s.State == crawl.StateCompleted {
		fmt.Fprintf(deps.Stdout, "Run %s\n", deps.RunID())
	}
}
