package mock

import (
	"context"

	"github.com/fwojciec/docharvest"
)

var _ docharvest.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of docharvest.ArtifactStore.
type ArtifactStore struct {
	ExistsFn func(category, url string) bool
	SaveFn   func(ctx context.Context, a *docharvest.Artifact) (*docharvest.ExtractionRecord, error)
}

func (s *ArtifactStore) Exists(category, url string) bool {
	return s.ExistsFn(category, url)
}

func (s *ArtifactStore) Save(ctx context.Context, a *docharvest.Artifact) (*docharvest.ExtractionRecord, error) {
	return s.SaveFn(ctx, a)
}

var _ docharvest.StateIndex = (*StateIndex)(nil)

// StateIndex is a mock implementation of docharvest.StateIndex.
type StateIndex struct {
	PurgeInvalidFn func(ctx context.Context) (int, error)
	ScanFn         func(ctx context.Context) (map[string]*docharvest.ExtractionRecord, error)
	MissingFn      func(ctx context.Context, targets []docharvest.Target) (*docharvest.Completeness, error)
}

func (s *StateIndex) PurgeInvalid(ctx context.Context) (int, error) {
	return s.PurgeInvalidFn(ctx)
}

func (s *StateIndex) Scan(ctx context.Context) (map[string]*docharvest.ExtractionRecord, error) {
	return s.ScanFn(ctx)
}

func (s *StateIndex) Missing(ctx context.Context, targets []docharvest.Target) (*docharvest.Completeness, error) {
	return s.MissingFn(ctx, targets)
}
