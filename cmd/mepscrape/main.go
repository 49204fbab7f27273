package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/crawl"
	"github.com/wkanaday/mepdir/excelize"
	"github.com/wkanaday/mepdir/fs"
	"github.com/wkanaday/mepdir/goquery"
	mephttp "github.com/wkanaday/mepdir/http"
	"github.com/wkanaday/mepdir/readability"
	"github.com/wkanaday/mepdir/rod"
	mepslog "github.com/wkanaday/mepdir/slog"
	"github.com/wkanaday/mepdir/sqlite"
	"github.com/wkanaday/mepdir/trafilatura"
	"github.com/wkanaday/mepdir/yaml"
)

// DefaultDelay is the politeness delay between requests to one host.
const DefaultDelay = time.Second

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the run archive.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close releases sinks and fetchers in reverse order of acquisition, then
// the database.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mepscrape"),
		kong.Description("Extract MEP center staff directories into a workbook."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mepscrape --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger
	deps.Rules = goquery.NewDefaultRegistry()

	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			fmt.Fprintf(stderr, "error: %s\n", mepdir.ErrorMessage(cerr))
			err = cerr
		}
	}()

	var table *yaml.SiteService
	if cmd == "run" || cmd == "sites" {
		table, err = yaml.Open(cli.Config)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", mepdir.ErrorMessage(err))
			return err
		}
		deps.Sites = table
	}
	var defaults yaml.Defaults
	if table != nil {
		defaults = table.Defaults()
	}

	switch cmd {
	case "scrape":
		if err := m.wireScrape(deps, cli.Scrape.ScrapeFlags, defaults); err != nil {
			return err
		}
	case "run":
		if err := m.wireScrape(deps, cli.Run.ScrapeFlags, defaults); err != nil {
			return err
		}
	case "find":
		m.wireFind(deps, cli.Find.FetchFlags)
	case "history":
		if err := m.openDB(stderr); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}

// wireScrape builds the scraper, its sinks and the run archive.
func (m *Main) wireScrape(deps *Dependencies, flags ScrapeFlags, defaults yaml.Defaults) error {
	opts := resolve(flags.FetchFlags, defaults)
	logger := deps.Logger

	fetcher := mephttp.NewFetcher(mephttp.WithTimeout(opts.Timeout), mephttp.WithUserAgent(opts.UserAgent))
	browser := &lazyFetcher{start: func() (mepdir.Fetcher, error) {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(opts.Timeout), rod.WithUserAgent(opts.UserAgent))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for browser sites")
			return nil, err
		}
		return f, nil
	}}
	m.closers = append(m.closers, fetcher, browser)

	var content mepdir.ContentExtractor = trafilatura.NewExtractor()
	if flags.Content == "readability" {
		content = readability.NewExtractor()
	}

	deps.Scraper = &crawl.Scraper{
		Fetcher:        mepslog.NewLoggingFetcher(fetcher, logger),
		BrowserFetcher: mepslog.NewLoggingFetcher(browser, logger),
		Extractor:      mepslog.NewLoggingExtractor(goquery.NewExtractor(), logger),
		Content:        content,
		Rules:          deps.Rules,
		Limiter:        crawl.NewHostLimiter(opts.Delay),
		Logger:         logger,
	}
	deps.Progress = progressPrinter(deps.Stderr)

	if flags.DryRun {
		return nil
	}

	if flags.CSVDir != "" {
		sink := mepslog.NewLoggingSink(fs.NewCSVSink(flags.CSVDir), "csv", logger)
		m.closers = append(m.closers, sink)
		deps.Sinks = append(deps.Sinks, sink)
	}
	if flags.Workbook != "" {
		wb, err := excelize.Open(flags.Workbook, excelize.WithStartRow(flags.StartRow))
		if err != nil {
			if mepdir.ErrorCode(err) == mepdir.ECONFLICT {
				fmt.Fprintln(deps.Stderr, "Hint: close the workbook in other programs, or pass --workbook=\"\" to skip it")
			}
			fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
			return err
		}
		sink := mepslog.NewLoggingSink(wb, "workbook", logger)
		m.closers = append(m.closers, sink)
		deps.Sinks = append(deps.Sinks, sink)
	}

	if err := m.openDB(deps.Stderr); err != nil {
		return err
	}
	deps.Runs = sqlite.NewRunService(m.DB)
	return nil
}

// wireFind builds the staff page finder.
func (m *Main) wireFind(deps *Dependencies, flags FetchFlags) {
	opts := resolve(flags, yaml.Defaults{})
	fetcher := mephttp.NewFetcher(mephttp.WithTimeout(opts.Timeout), mephttp.WithUserAgent(opts.UserAgent))
	m.closers = append(m.closers, fetcher)

	deps.Finder = &crawl.Finder{
		Fetcher:   mepslog.NewLoggingFetcher(fetcher, deps.Logger),
		Sitemaps:  mepslog.NewLoggingSitemapService(mephttp.NewSitemapService(nil), deps.Logger),
		Inspector: goquery.NewInspector(),
		Limiter:   crawl.NewHostLimiter(opts.Delay),
		Logger:    deps.Logger,
	}
}

func (m *Main) openDB(stderr io.Writer) error {
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set MEPDIR_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	return nil
}

// resolve applies flags over the site table defaults over built-in ones.
func resolve(flags FetchFlags, defaults yaml.Defaults) yaml.Defaults {
	opts := yaml.Defaults{
		Timeout:   mephttp.DefaultFetchTimeout,
		Delay:     DefaultDelay,
		UserAgent: mephttp.DefaultUserAgent,
	}
	if defaults.Timeout > 0 {
		opts.Timeout = defaults.Timeout
	}
	if defaults.Delay > 0 {
		opts.Delay = defaults.Delay
	}
	if defaults.UserAgent != "" {
		opts.UserAgent = defaults.UserAgent
	}
	if flags.Timeout != nil && *flags.Timeout > 0 {
		opts.Timeout = *flags.Timeout
	}
	if flags.Delay != nil && *flags.Delay >= 0 {
		opts.Delay = *flags.Delay
	}
	if flags.UserAgent != "" {
		opts.UserAgent = flags.UserAgent
	}
	return opts
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// progressPrinter reports each site's listing and final count on w.
func progressPrinter(w io.Writer) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressListing:
			fmt.Fprintf(w, "%s: %d staff found on %s\n", e.Site, e.Total, e.URL)
		case crawl.ProgressFinished:
			fmt.Fprintf(w, "%s: %d records\n", e.Site, e.Completed)
		}
	}
}

func defaultDBPath() string {
	if path := os.Getenv("MEPDIR_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mepdir.db"
	}
	dir := filepath.Join(home, ".mepdir")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "runs.db")
}
