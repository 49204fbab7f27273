package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Sites    mepdir.SiteService
	Rules    mepdir.RulesRegistry
	Runs     mepdir.RunService
	Scraper  *crawl.Scraper
	Finder   mepdir.StaffPageFinder
	Sinks    []mepdir.RecordSink
	Progress crawl.ProgressFunc
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" default:"sites.yaml" help:"Site table (a sites.local.yaml next to it is merged in)"`
	DB      string `name:"db" help:"Run archive path (defaults to $MEPDIR_DB or ~/.mepdir/runs.db)"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape one staff directory"`
	Run     RunCmd     `cmd:"" help:"Scrape the configured sites"`
	Sites   SitesCmd   `cmd:"" help:"List the configured sites"`
	Find    FindCmd    `cmd:"" help:"Find the staff page of a center's website"`
	History HistoryCmd `cmd:"" help:"List archived runs"`
}

// FetchFlags control how pages are requested. Unset flags fall back to the
// site table's defaults, then to built-in ones.
type FetchFlags struct {
	Timeout   *time.Duration `help:"Per-request timeout (default 30s)"`
	Delay     *time.Duration `help:"Minimum delay between requests to one host (default 1s)"`
	UserAgent string         `name:"user-agent" help:"User-Agent header"`
}

// ScrapeFlags are shared by scrape and run.
type ScrapeFlags struct {
	FetchFlags `embed:""`

	MaxProfiles *int   `name:"max-profiles" help:"Profile pages fetched per site; 0 means no cap, negative disables enrichment"`
	Browser     bool   `help:"Render listing and profile pages with headless Chrome"`
	Content     string `enum:"trafilatura,readability" default:"trafilatura" help:"Bio fallback extractor for profile pages"`
	Workbook    string `default:"state_meps.xlsx" help:"Workbook to update; empty skips it"`
	StartRow    int    `name:"start-row" default:"4" help:"First workbook row written"`
	CSVDir      string `name:"csv-dir" default:"." help:"Directory for <code>_staff_temp.csv files; empty skips them"`
	DryRun      bool   `name:"dry-run" short:"n" help:"Print records without writing or archiving them"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Code string `arg:"" help:"Target sheet, usually the state abbreviation"`
	Name string `arg:"" help:"Center name"`
	URL  string `arg:"" help:"Staff listing URL"`

	ScrapeFlags `embed:""`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Codes []string `arg:"" optional:"" help:"Site codes to scrape (default all)"`

	ScrapeFlags `embed:""`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct{}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	BaseURL string `arg:"" name:"base-url" help:"Center home page"`

	FetchFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Code  string `arg:"" optional:"" help:"Only runs of this site"`
	Limit int    `short:"l" default:"20" help:"Maximum runs listed"`
	Show  string `help:"Print the records of the run with this ID"`
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
