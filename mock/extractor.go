package mock

import "github.com/fwojciec/docharvest"

var _ docharvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docharvest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docharvest.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docharvest.ExtractResult, error) {
	return e.ExtractFn(html)
}
