package docharvest

import "context"

// Frontier orders targets for dispatch by ascending priority, stable for
// equal priority, and drops repeated URLs.
type Frontier interface {
	// Push adds a target to the frontier.
	// Returns false if the URL has already been seen.
	Push(t Target) bool

	// Pop returns the next target by priority.
	// Returns false if the frontier is empty.
	Pop() (Target, bool)

	// Len returns the number of targets in the queue.
	Len() int

	// Seen returns true if the URL has been queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
