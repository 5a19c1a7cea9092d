package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/goquery"
	harvesthttp "github.com/fwojciec/harvest/http"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database opened for the selected command, if any.
	DB *sqlite.DB

	// Fetcher used by the crawl command.
	Fetcher harvest.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		m.Fetcher.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Description("Crawl a site from a seed URL and extract the text of matching pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"user_agent": harvesthttp.DefaultUserAgent},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	defer m.Close()

	// Wire command-specific dependencies based on command
	var command, dbPath string
	if node := kongCtx.Selected(); node != nil {
		command = node.Name
	}
	switch command {
	case "crawl":
		if err := m.wireCrawl(&cli.Crawl, deps); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", errorMessage(err))
			return err
		}
	case "runs":
		dbPath = cli.Runs.DB
	case "show":
		dbPath = cli.Show.DB
	}
	if dbPath != "" {
		if err := m.openDB(dbPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run()
}

func (m *Main) openDB(path string) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.DB = db
	return nil
}

// wireCrawl resolves the crawl configuration and builds the crawler and
// its result sink.
func (m *Main) wireCrawl(c *CrawlCmd, deps *Dependencies) error {
	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}
	deps.Config = cfg

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))

	client := harvesthttp.NewClient(
		harvesthttp.WithTimeout(c.Timeout),
		harvesthttp.WithUserAgent(c.UserAgent),
	)

	m.Fetcher = harvestslog.NewLoggingFetcher(harvesthttp.NewFetcher(client), logger)
	deps.Crawler = &crawl.Crawler{
		Fetcher: m.Fetcher,
		Robots:  harvestslog.NewLoggingRobotsLoader(harvesthttp.NewRobotsLoader(client), logger),
		Links:   goquery.NewLinkExtractor(),
		Content: goquery.NewContentExtractor(),
	}
	if c.Sitemap {
		deps.Crawler.Sitemaps = harvestslog.NewLoggingSitemapService(harvesthttp.NewSitemapService(client), logger)
	}
	if c.Rate > 0 {
		deps.Crawler.RateLimiter = crawl.NewHostLimiter(c.Rate)
	}

	if isSQLitePath(cfg.OutputFileName) {
		if err := m.openDB(cfg.OutputFileName); err != nil {
			return err
		}
		store := sqlite.NewResultStore(m.DB, cfg.URL)
		deps.RunID = store.RunID
		deps.Crawler.Results = harvestslog.NewLoggingResultWriter(store, logger)
	} else {
		deps.Crawler.Results = harvestslog.NewLoggingResultWriter(fs.NewJSONWriter(cfg.OutputFileName), logger)
	}
	return nil
}

// isSQLitePath reports whether path names a SQLite database file.
func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// errorMessage returns a user-facing message for err. Application errors
// carry their own message; anything else is shown verbatim.
func errorMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	if harvest.ErrorCode(err) == harvest.EINTERNAL {
		return err.Error()
	}
	return harvest.ErrorMessage(err)
}
