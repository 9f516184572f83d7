package docharvest

import "time"

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressExtracted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// String returns the lower-case name of the progress type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressExtracted:
		return "extracted"
	case ProgressSkipped:
		return "skipped"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ProgressEvent is emitted by the pipeline once per completed item, plus
// once at the start and once at the end of a run.
// Completion order is not dispatch order.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Category  string
	Path      string
	Bytes     int
	Hash      string
	Unchanged bool
	Attempts  int
	Duration  time.Duration
	Completed int
	Total     int
	Error     error
}

// ProgressFunc receives progress events. It may be called from multiple
// goroutines and must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

// MultiProgress fans an event out to every non-nil fn.
func MultiProgress(fns ...ProgressFunc) ProgressFunc {
	return func(e ProgressEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(e)
			}
		}
	}
}
