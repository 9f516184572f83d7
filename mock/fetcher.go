package mock

import (
	"context"

	"github.com/fwojciec/docharvest"
)

var _ docharvest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docharvest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docharvest.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docharvest.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
