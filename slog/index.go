package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docharvest"
)

// Ensure LoggingStateIndex implements docharvest.StateIndex.
var _ docharvest.StateIndex = (*LoggingStateIndex)(nil)

// LoggingStateIndex wraps a StateIndex with logging.
type LoggingStateIndex struct {
	next   docharvest.StateIndex
	logger *slog.Logger
}

// NewLoggingStateIndex creates a new LoggingStateIndex.
func NewLoggingStateIndex(next docharvest.StateIndex, logger *slog.Logger) *LoggingStateIndex {
	return &LoggingStateIndex{next: next, logger: logger}
}

// PurgeInvalid delegates to the wrapped index and logs the count removed.
func (s *LoggingStateIndex) PurgeInvalid(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("purge invalid",
			"purged", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PurgeInvalid(ctx)
}

// Scan delegates to the wrapped index and logs the number of artifacts.
func (s *LoggingStateIndex) Scan(ctx context.Context) (records map[string]*docharvest.ExtractionRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scan",
			"artifacts", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scan(ctx)
}

// Missing delegates to the wrapped index and logs the completeness.
func (s *LoggingStateIndex) Missing(ctx context.Context, targets []docharvest.Target) (c *docharvest.Completeness, err error) {
	defer func(begin time.Time) {
		var extracted, missing int
		if c != nil {
			extracted, missing = c.AlreadyExtracted, c.Missing
		}
		s.logger.Info("completeness",
			"requested", len(targets),
			"extracted", extracted,
			"missing", missing,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Missing(ctx, targets)
}
