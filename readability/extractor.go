// Package readability isolates main content with the Mozilla Readability
// algorithm. It suits pages without a recognised documentation framework.
package readability

import (
	"strings"

	"github.com/fwojciec/docharvest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docharvest.Extractor at compile time.
var _ docharvest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docharvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docharvest.Errorf(docharvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, docharvest.Errorf(docharvest.ENOTFOUND, "no readable content")
	}

	return &docharvest.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
