package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fwojciec/docharvest"
	"github.com/google/uuid"
)

// Runner performs a complete run: it purges invalid artifacts, computes
// what is missing, extracts it and reports the final completeness.
type Runner struct {
	Index      docharvest.StateIndex
	Pipeline   *Pipeline
	Reports    []docharvest.ReportWriter
	OutputRoot string

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Run extracts every target that is not already present, or every target
// when the pipeline does not skip existing artifacts, and returns the run
// report. Only failure to prepare the output root or to read its
// state is fatal. When ctx is cancelled the report still reflects what
// was written and its stats are marked interrupted.
func (r *Runner) Run(ctx context.Context, targets []docharvest.Target, progress docharvest.ProgressFunc) (*docharvest.Report, error) {
	if r.Pipeline == nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "runner requires a pipeline")
	}
	return r.run(ctx, targets, true, func(ctx context.Context, missing []docharvest.Target) (*docharvest.RunStats, error) {
		return r.Pipeline.Run(ctx, missing, progress)
	})
}

// Verify reports completeness without fetching anything. Invalid
// artifacts are removed first when purge is set.
func (r *Runner) Verify(ctx context.Context, targets []docharvest.Target, purge bool) (*docharvest.Report, error) {
	return r.run(ctx, targets, purge, nil)
}

type extractFunc func(ctx context.Context, missing []docharvest.Target) (*docharvest.RunStats, error)

func (r *Runner) run(ctx context.Context, targets []docharvest.Target, purge bool, extract extractFunc) (*docharvest.Report, error) {
	if r.Index == nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "runner requires a state index")
	}
	logger := r.logger()

	report := &docharvest.Report{
		RunID:      r.newID(),
		StartedAt:  r.now().UTC(),
		OutputRoot: r.OutputRoot,
	}

	if r.OutputRoot != "" {
		if err := os.MkdirAll(r.OutputRoot, 0o755); err != nil {
			return nil, fmt.Errorf("create output root: %w", err)
		}
	}

	if purge {
		n, err := r.Index.PurgeInvalid(ctx)
		if err != nil {
			return nil, fmt.Errorf("purge invalid artifacts: %w", err)
		}
		report.Purged = n
	}

	if _, err := r.Index.Scan(ctx); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	before, err := r.Index.Missing(ctx, targets)
	if err != nil {
		return nil, fmt.Errorf("completeness: %w", err)
	}

	// With skip-existing off every requested target is fetched again.
	dispatch := before.ToExtract
	if r.Pipeline != nil && !r.Pipeline.SkipExisting {
		dispatch = targets
	}

	stats := &docharvest.RunStats{Categories: map[string]int{}}
	if extract != nil && len(dispatch) > 0 {
		stats, err = extract(ctx, dispatch)
		if err != nil {
			return nil, err
		}
	}
	stats.Requested = before.Total
	stats.AlreadyExtracted = before.AlreadyExtracted
	stats.Missing = before.Missing
	report.Stats = *stats

	// Reconciliation runs even after cancellation so the report matches disk.
	rctx := context.WithoutCancel(ctx)
	records, err := r.Index.Scan(rctx)
	if err != nil {
		return nil, fmt.Errorf("rescan: %w", err)
	}
	after, err := r.Index.Missing(rctx, targets)
	if err != nil {
		return nil, fmt.Errorf("final completeness: %w", err)
	}

	for _, rec := range records {
		report.TotalBytes += rec.Size
	}
	report.FinalExtracted = after.AlreadyExtracted
	report.FinalMissing = after.Missing
	report.SuccessRate = stats.SuccessRate()
	if after.Total > 0 {
		report.CompletionRate = float64(after.AlreadyExtracted) / float64(after.Total) * 100
	}
	report.Categories = categoryReports(before, after, stats)
	report.MissingURLs = append([]docharvest.Target{}, after.ToExtract[:min(len(after.ToExtract), docharvest.MaxReportedMissing)]...)
	report.FinishedAt = r.now().UTC()

	var errs []error
	for _, w := range r.Reports {
		if err := w.WriteReport(rctx, report); err != nil {
			logger.Error("write report", "err", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return report, fmt.Errorf("write report: %w", errors.Join(errs...))
	}

	return report, nil
}

// categoryReports merges the before and after completeness with the
// per-category successes, in order of first appearance.
func categoryReports(before, after *docharvest.Completeness, stats *docharvest.RunStats) []docharvest.CategoryReport {
	finals := make(map[string]docharvest.CategoryCompleteness, len(after.Categories))
	for _, c := range after.Categories {
		finals[c.Category] = c
	}
	out := make([]docharvest.CategoryReport, 0, len(before.Categories))
	for _, c := range before.Categories {
		final := finals[c.Category]
		out = append(out, docharvest.CategoryReport{
			Category:        c.Category,
			Requested:       c.Total,
			ExtractedBefore: c.Extracted,
			Succeeded:       stats.Categories[c.Category],
			FinalExtracted:  final.Extracted,
			FinalMissing:    final.Missing,
		})
	}
	return out
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) newID() string {
	if r.NewID == nil {
		return uuid.New().String()
	}
	return r.NewID()
}
