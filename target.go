package docharvest

import (
	"context"
	"io"
)

// Target is a URL requested for extraction.
type Target struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Priority int    `json:"-"`

	// Batch optionally groups manifest rows so a run can be restricted to one group.
	Batch string `json:"batch,omitempty"`
}

// ManifestReader loads requested targets from a tabular manifest.
type ManifestReader interface {
	// ReadManifest parses rows of at least (category, url).
	// The header row is ignored and malformed rows are skipped.
	ReadManifest(r io.Reader) ([]Target, error)
}

// TargetSource produces the requested target set for a run.
type TargetSource interface {
	Targets(ctx context.Context) ([]Target, error)
}
