// Package rod fetches pages that need JavaScript rendering with a headless
// Chrome driven by go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/docharvest"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// ErrClosed is returned by Fetch after Close.
var ErrClosed = errors.New("rod: fetcher closed")

// Ensure Fetcher implements docharvest.Fetcher at compile time.
var _ docharvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Chrome accumulates memory under load, so the browser is replaced after
// maxPages pages. Fetcher is safe for concurrent use; a recycle waits for
// in-flight pages to finish.
//
// The browser does not expose the origin status code, so responses carry
// StatusCode 0.
type Fetcher struct {
	mu       sync.RWMutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	pages    atomic.Int64
	maxPages int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages sets the number of pages after which the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docharvest.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.recycleIfNeeded()

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed.Load() || f.browser == nil {
		return nil, ErrClosed
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	f.pages.Add(1)

	return &docharvest.Response{URL: url, Body: html}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// launch starts a browser with stability flags. Must be called with mu
// held or before the Fetcher is shared.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// shutdown closes the browser and kills the launcher. Must be called with
// mu held.
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

// recycleIfNeeded replaces the browser once maxPages pages were rendered.
// If the new browser fails to launch the old one is kept.
func (f *Fetcher) recycleIfNeeded() {
	if f.maxPages <= 0 || f.pages.Load() < f.maxPages {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Load() || f.pages.Load() < f.maxPages {
		return
	}

	oldBrowser, oldLauncher := f.browser, f.launcher
	if err := f.launch(); err != nil {
		f.browser, f.launcher = oldBrowser, oldLauncher
		return
	}
	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	f.pages.Store(0)
}
