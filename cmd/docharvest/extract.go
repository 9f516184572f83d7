package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/bluemonday"
	"github.com/fwojciec/docharvest/config"
	"github.com/fwojciec/docharvest/extract"
	"github.com/fwojciec/docharvest/fs"
	"github.com/fwojciec/docharvest/goquery"
	"github.com/fwojciec/docharvest/htmltomarkdown"
	"github.com/fwojciec/docharvest/prometheus"
	"github.com/fwojciec/docharvest/readability"
	dhslog "github.com/fwojciec/docharvest/slog"
	"github.com/fwojciec/docharvest/sqlite"
	"github.com/fwojciec/docharvest/trafilatura"
)

// errInterrupted is returned when a run stops before every target was
// dispatched. Artifacts written so far are kept; rerunning resumes.
var errInterrupted = errors.New("interrupted; run again to resume")

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	c.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}

	targets, err := c.targets(deps, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Requested %d URLs\n", len(targets))

	fetcher, err := deps.NewFetcher(cfg)
	if err != nil {
		return err
	}
	defer fetcher.Close()
	if deps.Verbose {
		fetcher = dhslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	var converterOpts []htmltomarkdown.Option
	if len(targets) > 0 {
		if domain := origin(targets[0].URL); domain != "" {
			converterOpts = append(converterOpts, htmltomarkdown.WithDomain(domain))
		}
	}

	store := fs.NewStore(cfg.Output.Root)
	pipeline := &extract.Pipeline{
		Fetcher:      fetcher,
		Extractor:    newExtractor(cfg),
		Converter:    htmltomarkdown.NewConverter(converterOpts...),
		Store:        store,
		Workers:      cfg.Extract.Workers,
		SkipExisting: cfg.Extract.SkipExisting,
		FetchTimeout: cfg.FetchTimeout(),
		RetryDelays:  extract.BackoffDelays(cfg.Extract.MaxRetries, extract.DefaultBaseDelay),
		Logger:       deps.Logger,
	}
	if cfg.Extract.RateLimit > 0 {
		pipeline.RateLimiter = extract.NewDomainLimiter(cfg.Extract.RateLimit)
	}

	reports := []docharvest.ReportWriter{fs.NewReportWriter(cfg.Output.Root)}
	if cfg.History.DB != "" {
		db := sqlite.NewDB(cfg.History.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("open history database %q: %w", cfg.History.DB, err)
		}
		defer db.Close()
		reports = append(reports, sqlite.NewHistoryWriter(db))
	}

	progress := []docharvest.ProgressFunc{progressPrinter(deps.Stdout, deps.Stderr)}
	if deps.Verbose {
		progress = append(progress, dhslog.ProgressLogger(deps.Logger))
	}
	var metrics *prometheus.Metrics
	if cfg.Metrics.File != "" {
		metrics = prometheus.NewMetrics()
		progress = append(progress, metrics.Progress())
	}

	runner := &extract.Runner{
		Index:      dhslog.NewLoggingStateIndex(fs.NewIndex(cfg.Output.Root, deps.Logger), deps.Logger),
		Pipeline:   pipeline,
		Reports:    reports,
		OutputRoot: cfg.Output.Root,
		Logger:     deps.Logger,
	}

	report, err := runner.Run(deps.Ctx, targets, docharvest.MultiProgress(progress...))
	if report == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}
	printReport(deps.Stdout, report)
	fmt.Fprintf(deps.Stdout, "Report written to %s\n", fs.NewReportWriter(cfg.Output.Root).Path())

	if metrics != nil {
		if merr := metrics.WriteTextfile(cfg.Metrics.File); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	if err != nil {
		return err
	}
	if report.Stats.Interrupted {
		return errInterrupted
	}
	return nil
}

// apply overrides cfg with the flags that were set.
func (c *ExtractCmd) apply(cfg *config.Config) {
	c.SourceFlags.apply(cfg)
	if c.Workers != 0 {
		cfg.Extract.Workers = c.Workers
	}
	if c.Force {
		cfg.Extract.SkipExisting = false
	}
	if c.Timeout != 0 {
		cfg.Extract.TimeoutSeconds = max(1, int(c.Timeout.Seconds()))
	}
	if c.Retries != 0 {
		cfg.Extract.MaxRetries = c.Retries
	}
	if c.RateLimit != 0 {
		cfg.Extract.RateLimit = c.RateLimit
	}
	if c.Extractor != "" {
		cfg.Extract.Extractor = c.Extractor
	}
	if c.NoSanitize {
		cfg.Extract.Sanitize = false
	}
	if c.Browser {
		cfg.Extract.Browser = true
	}
	if c.HistoryDB != "" {
		cfg.History.DB = c.HistoryDB
	}
	if c.MetricsFile != "" {
		cfg.Metrics.File = c.MetricsFile
	}
}

// newExtractor returns the configured main-content extractor, or nil to
// convert whole pages.
func newExtractor(cfg config.Config) docharvest.Extractor {
	var e docharvest.Extractor
	switch cfg.Extract.Extractor {
	case config.ExtractorGoquery:
		e = goquery.NewContentExtractor()
	case config.ExtractorReadability:
		e = readability.NewExtractor()
	case config.ExtractorTrafilatura:
		e = trafilatura.NewExtractor()
	default:
		return nil
	}
	if cfg.Extract.Sanitize {
		e = bluemonday.NewSanitizingExtractor(e)
	}
	return e
}

// origin returns scheme://host of rawURL.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
