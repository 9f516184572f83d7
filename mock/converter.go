package mock

import "github.com/fwojciec/docharvest"

var _ docharvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of docharvest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
