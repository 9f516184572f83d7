package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/docharvest"
)

// ReportFileName is the name of the run report under the output root.
const ReportFileName = "extraction_report.json"

// Ensure ReportWriter implements docharvest.ReportWriter at compile time.
var _ docharvest.ReportWriter = (*ReportWriter)(nil)

// ReportWriter persists run reports as indented JSON.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter that writes ReportFileName under root.
func NewReportWriter(root string) *ReportWriter {
	return &ReportWriter{path: filepath.Join(root, ReportFileName)}
}

// Path returns the report location.
func (w *ReportWriter) Path() string {
	return w.path
}

// WriteReport writes the report atomically.
func (w *ReportWriter) WriteReport(ctx context.Context, r *docharvest.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return err
	}
	return WriteFileAtomic(w.path, data)
}

// ReadReport loads a report previously written by a ReportWriter.
func ReadReport(path string) (*docharvest.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r docharvest.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "decode report %s: %v", path, err)
	}
	return &r, nil
}
