package main

import (
	"fmt"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/extract"
	"github.com/fwojciec/docharvest/fs"
	dhslog "github.com/fwojciec/docharvest/slog"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
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

	runner := &extract.Runner{
		Index:      dhslog.NewLoggingStateIndex(fs.NewIndex(cfg.Output.Root, deps.Logger), deps.Logger),
		OutputRoot: cfg.Output.Root,
		Reports:    []docharvest.ReportWriter{fs.NewReportWriter(cfg.Output.Root)},
		Logger:     deps.Logger,
	}

	report, err := runner.Verify(deps.Ctx, targets, !c.Keep)
	if report == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docharvest.ErrorMessage(err))
		return err
	}

	if report.Purged > 0 {
		fmt.Fprintf(deps.Stdout, "Removed %d invalid artifacts\n", report.Purged)
	}
	printCompleteness(deps.Stdout, report)
	return err
}
