// Package extract runs documentation extraction: it schedules requested
// targets by category priority, fetches them with retry, converts the
// markup and stores one artifact per page, then reconciles the output
// directory against the requested set and reports.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/fs"
	"golang.org/x/sync/errgroup"
)

// Pipeline defaults.
const (
	DefaultWorkers      = 8
	DefaultFetchTimeout = 30 * time.Second
)

// Pipeline fetches, converts and stores targets with a bounded worker pool.
type Pipeline struct {
	Fetcher   docharvest.Fetcher
	Extractor docharvest.Extractor // optional main-content isolation
	Converter docharvest.Converter
	Store     docharvest.ArtifactStore

	// RateLimiter, when set, spaces requests per host.
	RateLimiter docharvest.DomainLimiter

	Workers      int
	SkipExisting bool
	FetchTimeout time.Duration
	RetryDelays  []time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// itemResult is the outcome of one dispatched target.
type itemResult struct {
	path      string
	bytes     int
	hash      string
	unchanged bool
	attempts  int
	err       error
}

// Run processes targets in ascending priority order, keeping requested
// order within a priority. Repeated URLs are processed once.
//
// Per-item failures are counted, never returned. When ctx is cancelled no
// further targets are dispatched; items already in flight run to
// completion and the partial stats are returned with Interrupted set.
func (p *Pipeline) Run(ctx context.Context, targets []docharvest.Target, progress docharvest.ProgressFunc) (*docharvest.RunStats, error) {
	if p.Fetcher == nil || p.Converter == nil || p.Store == nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "pipeline requires a fetcher, a converter and a store")
	}
	if progress == nil {
		progress = func(docharvest.ProgressEvent) {}
	}
	logger := p.logger()

	frontier := NewFrontier(len(targets), WithCollisionLog(fs.FileName, logger))
	perCategory := make(map[string]*atomic.Int64)
	for _, t := range targets {
		if frontier.Push(t) {
			if _, ok := perCategory[t.Category]; !ok {
				perCategory[t.Category] = new(atomic.Int64)
			}
		}
	}
	total := frontier.Len()

	var succeeded, failed, skipped, unchanged, completed atomic.Int64
	var interrupted atomic.Bool

	begin := time.Now()
	progress(docharvest.ProgressEvent{Type: docharvest.ProgressStarted, Total: total})

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for {
		if ctx.Err() != nil {
			if frontier.Len() > 0 {
				interrupted.Store(true)
			}
			break
		}
		t, ok := frontier.Pop()
		if !ok {
			break
		}

		if p.SkipExisting && p.Store.Exists(t.Category, t.URL) {
			skipped.Add(1)
			progress(docharvest.ProgressEvent{
				Type:      docharvest.ProgressSkipped,
				URL:       t.URL,
				Category:  t.Category,
				Completed: int(completed.Add(1)),
				Total:     total,
			})
			continue
		}

		if p.RateLimiter != nil {
			if err := p.RateLimiter.Wait(ctx, host(t.URL)); err != nil {
				// Only cancellation makes Wait fail; t was never dispatched.
				interrupted.Store(true)
				break
			}
		}

		g.Go(func() error {
			// Go may block for a free worker past cancellation.
			if ctx.Err() != nil {
				interrupted.Store(true)
				return nil
			}
			start := time.Now()
			res := p.process(ctx, t)

			e := docharvest.ProgressEvent{
				URL:      t.URL,
				Category: t.Category,
				Path:     res.path,
				Bytes:    res.bytes,
				Hash:      res.hash,
				Unchanged: res.unchanged,
				Attempts:  res.attempts,
				Duration:  time.Since(start),
				Total:     total,
				Error:     res.err,
			}
			if res.err != nil {
				failed.Add(1)
				e.Type = docharvest.ProgressFailed
			} else {
				succeeded.Add(1)
				if res.unchanged {
					unchanged.Add(1)
				}
				perCategory[t.Category].Add(1)
				e.Type = docharvest.ProgressExtracted
			}
			e.Completed = int(completed.Add(1))
			progress(e)
			return nil
		})
	}
	_ = g.Wait()

	stats := &docharvest.RunStats{
		Requested:   total,
		Missing:     total,
		Succeeded:   int(succeeded.Load()),
		Failed:      int(failed.Load()),
		Skipped:     int(skipped.Load()),
		Unchanged:   int(unchanged.Load()),
		Categories:  make(map[string]int, len(perCategory)),
		Interrupted: interrupted.Load(),
	}
	for name, n := range perCategory {
		stats.Categories[name] = int(n.Load())
	}

	progress(docharvest.ProgressEvent{
		Type:      docharvest.ProgressFinished,
		Completed: int(completed.Load()),
		Total:     total,
		Duration:  time.Since(begin),
	})

	return stats, nil
}

// process fetches, converts and stores a single target. It runs detached
// from ctx so that an item in flight at cancellation still completes;
// every fetch attempt is bounded by the fetch timeout.
func (p *Pipeline) process(ctx context.Context, t docharvest.Target) itemResult {
	ctx = context.WithoutCancel(ctx)
	logger := p.logger()

	timeout := p.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	fetch := func(ctx context.Context, url string) (*docharvest.Response, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Fetcher.Fetch(ctx, url)
	}
	onRetry := func(url string, attempt int, delay time.Duration, err error) {
		logger.Warn("retrying fetch", "url", url, "attempt", attempt, "delay", delay, "err", err)
	}

	resp, attempts, err := FetchWithRetry(ctx, t.URL, fetch, delays, onRetry)
	if err != nil {
		return itemResult{attempts: attempts, err: err}
	}

	content, err := p.convert(resp.Body)
	if err != nil {
		logger.Warn("storing raw markup", "url", t.URL, "err", err)
		content = fmt.Sprintf("<!-- %s: %v -->\n%s", docharvest.ConversionBanner, err, resp.Body)
	}

	rec, err := p.Store.Save(ctx, &docharvest.Artifact{
		SourceURL:   t.URL,
		Category:    t.Category,
		Content:     content,
		StatusCode:  resp.StatusCode,
		ExtractedAt: p.now().UTC(),
	})
	if err != nil {
		return itemResult{attempts: attempts, err: fmt.Errorf("store: %w", err)}
	}

	return itemResult{
		path:      rec.Path,
		bytes:     int(rec.Size),
		hash:      rec.ContentHash,
		unchanged: rec.Unchanged,
		attempts:  attempts,
	}
}

func (p *Pipeline) convert(html string) (string, error) {
	if p.Extractor != nil {
		r, err := p.Extractor.Extract(html)
		if err != nil {
			return "", fmt.Errorf("extract: %w", err)
		}
		html = r.ContentHTML
	}
	text, err := p.Converter.Convert(html)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return text, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
