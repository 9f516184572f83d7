package docharvest

import (
	"context"
	"time"
)

// ExtractionRecord describes one persisted artifact.
// Records are never modified in place; re-extraction overwrites the file.
type ExtractionRecord struct {
	SourceURL string    `json:"sourceUrl"`
	Category  string    `json:"category"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"modTime"`

	// ContentHash identifies the stored content. It is set by Save and
	// empty for records rebuilt from a scan.
	ContentHash string `json:"contentHash,omitempty"`

	// Unchanged is set by Save when the artifact already held the same
	// content for the same URL and was left as it was.
	Unchanged bool `json:"unchanged,omitempty"`
}

// Artifact is converted content ready to be stored.
type Artifact struct {
	SourceURL   string
	Category    string
	Content     string
	StatusCode  int
	ExtractedAt time.Time
}

// Validate returns an error if the artifact contains invalid fields.
func (a *Artifact) Validate() error {
	if a.SourceURL == "" {
		return Errorf(EINVALID, "artifact source URL required")
	}
	if a.Category == "" {
		return Errorf(EINVALID, "artifact category required")
	}
	return nil
}

// ArtifactStore persists artifacts so that no partially written file is
// ever observable.
type ArtifactStore interface {
	// Exists reports whether a valid artifact for url already exists at
	// its expected location in category.
	Exists(category, url string) bool

	// Save writes the artifact and returns its record.
	Save(ctx context.Context, a *Artifact) (*ExtractionRecord, error)
}

// Completeness partitions a requested target set into present and missing URLs.
// AlreadyExtracted + Missing == Total always holds.
type Completeness struct {
	Total            int
	AlreadyExtracted int
	Missing          int

	// ToExtract lists missing targets in requested order.
	ToExtract []Target

	// Categories breaks the counts down by category in order of first appearance.
	Categories []CategoryCompleteness
}

// CategoryCompleteness is the per-category part of a Completeness.
type CategoryCompleteness struct {
	Category  string `json:"category"`
	Total     int    `json:"total"`
	Extracted int    `json:"extracted"`
	Missing   int    `json:"missing"`
}

// StateIndex reconciles what has been extracted against what is requested.
type StateIndex interface {
	// PurgeInvalid removes empty or truncated artifacts and returns how
	// many were removed. It must run before any completeness decision.
	PurgeInvalid(ctx context.Context) (int, error)

	// Scan rebuilds the URL to artifact mapping from provenance markers.
	Scan(ctx context.Context) (map[string]*ExtractionRecord, error)

	// Missing computes the completeness of targets against the last scan.
	Missing(ctx context.Context, targets []Target) (*Completeness, error)
}
