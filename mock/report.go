package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docharvest"
)

var _ docharvest.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of docharvest.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, r *docharvest.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, r *docharvest.Report) error {
	return w.WriteReportFn(ctx, r)
}

var _ docharvest.ManifestReader = (*ManifestReader)(nil)

// ManifestReader is a mock implementation of docharvest.ManifestReader.
type ManifestReader struct {
	ReadManifestFn func(r io.Reader) ([]docharvest.Target, error)
}

func (m *ManifestReader) ReadManifest(r io.Reader) ([]docharvest.Target, error) {
	return m.ReadManifestFn(r)
}
