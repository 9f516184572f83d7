package slog

import (
	"log/slog"

	"github.com/fwojciec/docharvest"
)

// ProgressLogger returns a ProgressFunc that logs each pipeline event.
// Failures log at warn level, everything else at info.
func ProgressLogger(logger *slog.Logger) docharvest.ProgressFunc {
	return func(e docharvest.ProgressEvent) {
		switch e.Type {
		case docharvest.ProgressStarted:
			logger.Info("extraction started", "total", e.Total)
		case docharvest.ProgressFinished:
			logger.Info("extraction finished",
				"completed", e.Completed,
				"total", e.Total,
				"duration", e.Duration,
			)
		case docharvest.ProgressFailed:
			logger.Warn("extraction failed",
				"url", e.URL,
				"category", e.Category,
				"attempts", e.Attempts,
				"completed", e.Completed,
				"total", e.Total,
				"err", e.Error,
			)
		case docharvest.ProgressExtracted:
			logger.Info("extracted",
				"url", e.URL,
				"category", e.Category,
				"path", e.Path,
				"bytes", e.Bytes,
				"hash", e.Hash,
				"unchanged", e.Unchanged,
				"attempts", e.Attempts,
				"completed", e.Completed,
				"total", e.Total,
			)
		default:
			logger.Info(e.Type.String(),
				"url", e.URL,
				"category", e.Category,
				"path", e.Path,
				"bytes", e.Bytes,
				"completed", e.Completed,
				"total", e.Total,
			)
		}
	}
}
