package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/config"
	"github.com/fwojciec/docharvest/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  config.Config
	Logger  *slog.Logger
	Verbose bool

	Classifier *docharvest.Classifier
	Manifests  docharvest.ManifestReader
	Sitemaps   docharvest.SitemapService
	NewFetcher func(cfg config.Config) (docharvest.Fetcher, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" help:"Config file (YAML, TOML or JSON)"`
	Output  string `short:"o" type:"path" help:"Output root directory (default ./output)"`
	Verbose bool   `short:"v" help:"Log every fetch and progress event"`

	Extract  ExtractCmd  `cmd:"" help:"Extract missing pages and write a run report"`
	Verify   VerifyCmd   `cmd:"" help:"Remove invalid artifacts and report completeness without fetching"`
	Classify ClassifyCmd `cmd:"" help:"Show how URLs are categorized and scheduled"`
	History  HistoryCmd  `cmd:"" help:"List past runs recorded in the history database"`
}

// SourceFlags select the requested targets. They are shared by the
// commands that read a target set.
type SourceFlags struct {
	Manifest   string   `short:"m" type:"path" help:"CSV manifest of category,url[,batch] rows (default urls_to_extract.csv)"`
	Sitemap    bool     `short:"s" help:"Discover targets from the sitemap instead of the manifest"`
	SitemapURL string   `name:"sitemap-url" help:"Sitemap to discover targets from"`
	Category   []string `short:"C" sep:"," help:"Only these categories (repeatable or comma separated)"`
	Batch      string   `short:"b" help:"Only manifest rows of this batch"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	SourceFlags `embed:""`

	Workers     int           `short:"w" help:"Concurrent workers (default 8)"`
	Force       bool          `short:"f" help:"Refetch pages that already have an artifact; identical content is not rewritten"`
	Timeout     time.Duration `short:"t" help:"Timeout per fetch attempt (default 30s)"`
	Retries     int           `help:"Fetch attempts per page (default 3)"`
	RateLimit   float64       `name:"rate-limit" help:"Requests per second per host, 0 for unlimited"`
	Extractor   string        `short:"e" help:"Main content extractor: goquery, readability, trafilatura or none"`
	NoSanitize  bool          `name:"no-sanitize" help:"Keep extracted HTML unsanitized"`
	Browser     bool          `help:"Render pages in a headless browser"`
	HistoryDB   string        `name:"history-db" type:"path" help:"Append the run report to this SQLite database"`
	MetricsFile string        `name:"metrics-file" type:"path" help:"Write Prometheus metrics to this textfile"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	SourceFlags `embed:""`

	Keep bool `help:"Report invalid artifacts as missing without removing them"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	SourceFlags `embed:""`

	URLs bool `short:"u" name:"urls" help:"List every URL with its category"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	DB    string `name:"db" type:"path" help:"History database (default from config history.db)"`
	Limit int    `short:"n" default:"20" help:"Number of runs to show"`
	RunID string `arg:"" optional:"" name:"run" help:"Show the full report of one run"`
}

// apply overrides cfg with the flags that were set.
func (f *SourceFlags) apply(cfg *config.Config) {
	if f.Manifest != "" {
		cfg.Input.Manifest = f.Manifest
	}
	if f.SitemapURL != "" {
		cfg.Input.SitemapURL = f.SitemapURL
	}
	if len(f.Category) > 0 {
		cfg.Input.Categories = f.Category
	}
	if f.Batch != "" {
		cfg.Input.Batch = f.Batch
	}
}

// targets loads the requested target set described by cfg.
func (f *SourceFlags) targets(deps *Dependencies, cfg config.Config) ([]docharvest.Target, error) {
	filter, err := deps.Classifier.Filter(cfg.Input.Categories)
	if err != nil {
		return nil, err
	}

	var source docharvest.TargetSource
	if f.Sitemap {
		source = &extract.SitemapSource{
			URL:        cfg.Input.SitemapURL,
			Sitemaps:   deps.Sitemaps,
			Classifier: deps.Classifier,
			Categories: filter,
		}
	} else {
		source = &extract.ManifestSource{
			Path:       cfg.Input.Manifest,
			Reader:     deps.Manifests,
			Classifier: deps.Classifier,
			Categories: filter,
			Batch:      cfg.Input.Batch,
		}
	}
	return source.Targets(deps.Ctx)
}
