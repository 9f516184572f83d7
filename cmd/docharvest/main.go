package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/config"
	"github.com/fwojciec/docharvest/csv"
	dhhttp "github.com/fwojciec/docharvest/http"
	"github.com/fwojciec/docharvest/rod"
	dhslog "github.com/fwojciec/docharvest/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewFetcher builds the page fetcher. When nil, an HTTP fetcher is used,
	// or a headless browser when extract.browser is set.
	NewFetcher func(cfg config.Config) (docharvest.Fetcher, error)

	// Sitemaps overrides sitemap discovery.
	Sitemaps docharvest.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
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
		kong.Name("docharvest"),
		kong.Description("Extract documentation sites into a resumable local text archive"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docharvest --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}
	if cli.Output != "" {
		cfg.Output.Root = cli.Output
	}
	if cli.Verbose {
		cfg.Logging.Level = "debug"
	}
	deps.Config = cfg
	deps.Verbose = cli.Verbose
	deps.Logger = newLogger(stderr, cfg.Logging.Level)

	classifier, err := docharvest.NewClassifier(docharvest.DefaultCategories())
	if err != nil {
		return err
	}
	deps.Classifier = classifier
	deps.Manifests = csv.NewManifestReader(deps.Logger)

	deps.Sitemaps = m.Sitemaps
	if deps.Sitemaps == nil {
		deps.Sitemaps = dhhttp.NewSitemapService(nil)
	}
	if cli.Verbose {
		deps.Sitemaps = dhslog.NewLoggingSitemapService(deps.Sitemaps, deps.Logger)
	}

	deps.NewFetcher = m.NewFetcher
	if deps.NewFetcher == nil {
		deps.NewFetcher = defaultFetcher(stderr)
	}

	return kongCtx.Run(deps)
}

// defaultFetcher returns the production fetcher factory.
func defaultFetcher(stderr io.Writer) func(config.Config) (docharvest.Fetcher, error) {
	return func(cfg config.Config) (docharvest.Fetcher, error) {
		if cfg.Extract.Browser {
			f, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			return f, nil
		}
		opts := []dhhttp.Option{dhhttp.WithTimeout(cfg.FetchTimeout())}
		if cfg.Extract.UserAgent != "" {
			opts = append(opts, dhhttp.WithUserAgent(cfg.Extract.UserAgent))
		}
		return dhhttp.NewFetcher(opts...), nil
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
