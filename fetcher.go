package docharvest

import (
	"context"
	"errors"
	"fmt"
)

// Response is the result of a successful fetch.
type Response struct {
	URL string

	// StatusCode is the origin status code, or 0 when the fetcher cannot
	// observe it (e.g. browser rendering).
	StatusCode int

	Body string
}

// Fetcher retrieves raw page markup from URLs.
type Fetcher interface {
	// Fetch retrieves the markup at url.
	// A non-success response is reported as a *StatusError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// StatusError reports a response with a non-success status code.
// Status errors are terminal: retrying will not change the answer.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// IsRetryable reports whether a fetch error may succeed on another attempt.
// Transport failures and timeouts are retryable; status errors and
// cancellation of the caller's context are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
