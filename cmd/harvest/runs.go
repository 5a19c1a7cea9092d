package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/fs"
)

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	DB       string `required:"" type:"existingfile" help:"SQLite output of earlier crawls"`
	StartURL string `short:"u" help:"Only list runs that started at this URL"`
	Limit    int    `short:"n" default:"20" help:"Maximum number of runs to list"`
}

// Run lists archived runs, newest first.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := harvest.RunFilter{Limit: c.Limit}
	if c.StartURL != "" {
		filter.StartURL = &c.StartURL
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Crawl with --output <file>.db to archive one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %3d pages  %s\n", r.ID, r.StartedAt.Local().Format(time.DateTime), r.PageCount, r.StartURL)
	}
	return nil
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Run ID or a unique prefix of it"`
	DB   string `required:"" type:"existingfile" help:"SQLite output of earlier crawls"`
	JSON bool   `help:"Print the pages as a JSON array in the crawl output format"`
}

// Run prints the pages of one archived run.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := c.findRun(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	results, err := deps.Runs.FindRunResults(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	if c.JSON {
		return fs.WriteJSON(deps.Stdout, results)
	}

	fmt.Fprintf(deps.Stdout, "Run %s of %s (%d pages):\n\n", run.ID, run.StartURL, len(results))
	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, r.Title, r.URL)
	}
	return nil
}

// findRun resolves c.ID as a full run ID, then as a prefix.
func (c *ShowCmd) findRun(deps *Dependencies) (*harvest.Run, error) {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if harvest.ErrorCode(err) != harvest.ENOTFOUND {
		return run, err
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, harvest.RunFilter{IDPrefix: &c.ID, Limit: 2})
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run %q not found. Use 'harvest runs' to list runs.", c.ID)
	case 1:
		return runs[0], nil
	default:
		return nil, harvest.Errorf(harvest.ECONFLICT, "run ID prefix %q is ambiguous", c.ID)
	}
}
