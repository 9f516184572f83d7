package docharvest

import (
	"context"
	"time"
)

// MaxReportedMissing caps the missing URLs listed in a report.
const MaxReportedMissing = 10

// RunStats counts the outcome of one pipeline run.
type RunStats struct {
	Requested        int `json:"requested"`
	AlreadyExtracted int `json:"alreadyExtracted"`
	Missing          int `json:"missing"`
	Succeeded        int `json:"succeeded"`
	Failed           int `json:"failed"`
	Skipped          int `json:"skipped"`

	// Unchanged counts successes whose stored content was already identical.
	Unchanged int `json:"unchanged,omitempty"`

	// Categories counts successful extractions per category.
	Categories map[string]int `json:"categories"`

	// Interrupted is set when the run was cancelled before every target was dispatched.
	Interrupted bool `json:"interrupted,omitempty"`
}

// Attempted returns the number of targets the pipeline fetched or tried to fetch.
func (s RunStats) Attempted() int {
	return s.Succeeded + s.Failed
}

// SuccessRate returns succeeded / attempted as a percentage, or 0 when
// nothing was attempted.
func (s RunStats) SuccessRate() float64 {
	if s.Attempted() == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted()) * 100
}

// CategoryReport is the per-category part of a Report.
type CategoryReport struct {
	Category        string `json:"category"`
	Requested       int    `json:"requested"`
	ExtractedBefore int    `json:"extractedBefore"`
	Succeeded       int    `json:"succeeded"`
	FinalExtracted  int    `json:"finalExtracted"`
	FinalMissing    int    `json:"finalMissing"`
}

// Report is the structured record written once at the end of a run.
type Report struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	OutputRoot string    `json:"outputRoot"`

	// Purged is the number of invalid artifacts removed before reconciliation.
	Purged int `json:"purged"`

	Stats RunStats `json:"stats"`

	FinalExtracted int     `json:"finalExtracted"`
	FinalMissing   int     `json:"finalMissing"`
	SuccessRate    float64 `json:"successRate"`
	CompletionRate float64 `json:"completionRate"`

	// TotalBytes is the size of all artifacts found by the final scan.
	TotalBytes int64 `json:"totalBytes"`

	Categories []CategoryReport `json:"categories"`

	// MissingURLs lists at most MaxReportedMissing targets still missing.
	MissingURLs []Target `json:"missingUrls"`
}

// ReportWriter persists a run report.
type ReportWriter interface {
	WriteReport(ctx context.Context, r *Report) error
}
