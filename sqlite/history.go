package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/docharvest"
)

// Compile-time interface verification.
var _ docharvest.ReportWriter = (*HistoryWriter)(nil)

// HistoryWriter appends run reports to the run history.
type HistoryWriter struct {
	db *DB
}

// NewHistoryWriter creates a new HistoryWriter.
func NewHistoryWriter(db *DB) *HistoryWriter {
	return &HistoryWriter{db: db}
}

// WriteReport stores the report with its category breakdown and listed
// missing URLs in one transaction. Writing the same run twice is an error.
func (w *HistoryWriter) WriteReport(ctx context.Context, r *docharvest.Report) error {
	if r.RunID == "" {
		return docharvest.Errorf(docharvest.EINVALID, "report run ID required")
	}

	tx, err := w.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, output_root, purged,
			requested, already_extracted, missing, succeeded, failed, skipped, interrupted,
			final_extracted, final_missing, success_rate, completion_rate, total_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, formatTime(r.StartedAt), formatTime(r.FinishedAt),
		r.OutputRoot, r.Purged,
		r.Stats.Requested, r.Stats.AlreadyExtracted, r.Stats.Missing,
		r.Stats.Succeeded, r.Stats.Failed, r.Stats.Skipped, r.Stats.Interrupted,
		r.FinalExtracted, r.FinalMissing, r.SuccessRate, r.CompletionRate, r.TotalBytes)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return docharvest.Errorf(docharvest.EINVALID, "run %s already recorded", r.RunID)
		}
		return fmt.Errorf("insert run: %w", err)
	}

	for i, c := range r.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_categories (run_id, position, category, requested,
				extracted_before, succeeded, final_extracted, final_missing)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.RunID, i, c.Category, c.Requested, c.ExtractedBefore, c.Succeeded, c.FinalExtracted, c.FinalMissing)
		if err != nil {
			return fmt.Errorf("insert run category: %w", err)
		}
	}

	for i, t := range r.MissingURLs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_missing (run_id, position, url, category)
			VALUES (?, ?, ?, ?)
		`, r.RunID, i, t.URL, t.Category)
		if err != nil {
			return fmt.Errorf("insert missing url: %w", err)
		}
	}

	return tx.Commit()
}

// RunFilter limits the runs returned by FindRuns.
type RunFilter struct {
	Limit  int
	Offset int
}

// FindRuns returns recorded runs, most recent first. Category breakdowns
// and missing URLs are not loaded; use FindRunByID for a full report.
func (w *HistoryWriter) FindRuns(ctx context.Context, filter RunFilter) ([]*docharvest.Report, error) {
	limit, args := limitClause(filter.Limit, filter.Offset)
	rows, err := w.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id`+limit, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*docharvest.Report{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// FindRunByID returns the full report of one run.
func (w *HistoryWriter) FindRunByID(ctx context.Context, id string) (*docharvest.Report, error) {
	r, err := scanRun(w.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, docharvest.Errorf(docharvest.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if r.Categories, err = w.findCategories(ctx, id); err != nil {
		return nil, err
	}
	if r.MissingURLs, err = w.findMissing(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

func (w *HistoryWriter) findCategories(ctx context.Context, id string) ([]docharvest.CategoryReport, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT category, requested, extracted_before, succeeded, final_extracted, final_missing
		FROM run_categories WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []docharvest.CategoryReport{}
	for rows.Next() {
		var c docharvest.CategoryReport
		if err := rows.Scan(&c.Category, &c.Requested, &c.ExtractedBefore, &c.Succeeded, &c.FinalExtracted, &c.FinalMissing); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (w *HistoryWriter) findMissing(ctx context.Context, id string) ([]docharvest.Target, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT url, category FROM run_missing WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := []docharvest.Target{}
	for rows.Next() {
		var t docharvest.Target
		if err := rows.Scan(&t.URL, &t.Category); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

const runColumns = `id, started_at, finished_at, output_root, purged,
	requested, already_extracted, missing, succeeded, failed, skipped, interrupted,
	final_extracted, final_missing, success_rate, completion_rate, total_bytes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*docharvest.Report, error) {
	var r docharvest.Report
	var startedAt, finishedAt string
	err := row.Scan(&r.RunID, &startedAt, &finishedAt, &r.OutputRoot, &r.Purged,
		&r.Stats.Requested, &r.Stats.AlreadyExtracted, &r.Stats.Missing,
		&r.Stats.Succeeded, &r.Stats.Failed, &r.Stats.Skipped, &r.Stats.Interrupted,
		&r.FinalExtracted, &r.FinalMissing, &r.SuccessRate, &r.CompletionRate, &r.TotalBytes)
	if err != nil {
		return nil, err
	}
	if r.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if r.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &r, nil
}
