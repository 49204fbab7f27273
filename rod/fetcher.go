// Package rod renders pages in headless Chrome for sites whose staff
// listings are built by JavaScript.
package rod

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/wkanaday/mepdir"
)

const (
	// DefaultFetchTimeout bounds a single page render.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultRenderDelay is how long to wait after load for scripts to
	// populate the page.
	DefaultRenderDelay = 2 * time.Second

	// DefaultMaxPages is the number of pages rendered before Chrome is
	// restarted. Chrome's memory use grows with every page it opens.
	DefaultMaxPages = 75
)

// Ensure Fetcher implements mepdir.Fetcher at compile time.
var _ mepdir.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout     time.Duration
	renderDelay time.Duration
	userAgent   string
	maxPages    int

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay sets the pause between page load and HTML capture.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithUserAgent overrides the browser's user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPages sets how many pages are rendered before Chrome is restarted.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		renderDelay: DefaultRenderDelay,
		maxPages:    DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	f.browser, f.launcher = browser, l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", mepdir.Errorf(mepdir.EFETCH, "opening page for %s: %v", url, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fetchError(ctx, url, err)
		}
	}
	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	if f.renderDelay > 0 {
		select {
		case <-time.After(f.renderDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// acquire returns the browser for the next page, restarting Chrome when
// the page budget is spent. A failed restart keeps the old browser.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, mepdir.Errorf(mepdir.EINVALID, "fetcher is closed")
	}
	if f.maxPages > 0 && f.pages >= f.maxPages {
		if browser, l, err := launch(); err == nil {
			_ = f.shutdown()
			f.browser, f.launcher = browser, l
			f.pages = 0
		}
	}
	f.pages++
	return f.browser, nil
}

// shutdown closes the current browser. Must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, mepdir.Errorf(mepdir.EINTERNAL, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, mepdir.Errorf(mepdir.EINTERNAL, "connecting to browser: %v", err)
	}
	return browser, l, nil
}

// fetchError passes context errors through and marks everything else as a
// fetch failure.
func fetchError(ctx context.Context, url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return mepdir.Errorf(mepdir.EFETCH, "rendering %s: %v", url, err)
}
