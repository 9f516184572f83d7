package extract

import (
	"context"
	"time"

	"github.com/fwojciec/docharvest"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*docharvest.Response, error)

// RetryFunc is called before each retry with the attempt that just failed
// (starting at 1), the delay about to be waited and the error.
type RetryFunc func(url string, attempt int, delay time.Duration, err error)

// DefaultMaxAttempts is the default number of fetch attempts per URL.
const DefaultMaxAttempts = 3

// DefaultBaseDelay is the wait after the first failed attempt.
const DefaultBaseDelay = time.Second

// DefaultRetryDelays returns the backoff delays for DefaultMaxAttempts
// attempts: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(DefaultMaxAttempts, DefaultBaseDelay)
}

// BackoffDelays returns the attempts-1 waits between attempts, starting at
// base and doubling each time.
func BackoffDelays(attempts int, base time.Duration) []time.Duration {
	if attempts <= 1 {
		return nil
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = base << i
	}
	return delays
}

// FetchWithRetry fetches url, retrying transport failures after each of
// delays in turn, so it makes at most len(delays)+1 attempts. Status
// errors and cancellation are returned immediately. It returns the number
// of attempts made.
//
// ctx only governs the waits between attempts; each attempt receives the
// context fetch was built with.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration, onRetry RetryFunc) (*docharvest.Response, int, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := fetch(ctx, url)
		if err == nil {
			return resp, attempt, nil
		}
		lastErr = err

		if attempt == maxAttempts || !docharvest.IsRetryable(err) {
			return nil, attempt, err
		}

		delay := delays[attempt-1]
		if onRetry != nil {
			onRetry(url, attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, maxAttempts, lastErr
}
