// Package bluemonday sanitizes extracted HTML before conversion.
package bluemonday

import (
	"strings"

	"github.com/fwojciec/docharvest"
	"github.com/microcosm-cc/bluemonday"
)

var _ docharvest.Extractor = (*SanitizingExtractor)(nil)

// SanitizingExtractor wraps an Extractor and strips scripts, styles, event
// handlers and unsafe attributes from its content. Document structure
// (headings, lists, tables, code blocks and links) is kept.
type SanitizingExtractor struct {
	next    docharvest.Extractor
	content *bluemonday.Policy
	text    *bluemonday.Policy
}

// NewSanitizingExtractor creates a SanitizingExtractor around next.
func NewSanitizingExtractor(next docharvest.Extractor) *SanitizingExtractor {
	content := bluemonday.UGCPolicy()
	// Keep code block languages for syntax-aware conversion.
	content.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")

	return &SanitizingExtractor{
		next:    next,
		content: content,
		text:    bluemonday.StrictPolicy(),
	}
}

// Extract delegates to the wrapped extractor and sanitizes the result.
func (e *SanitizingExtractor) Extract(html string) (*docharvest.ExtractResult, error) {
	r, err := e.next.Extract(html)
	if err != nil {
		return nil, err
	}
	content := e.content.Sanitize(r.ContentHTML)
	if strings.TrimSpace(content) == "" {
		return nil, docharvest.Errorf(docharvest.ENOTFOUND, "no content left after sanitizing")
	}
	return &docharvest.ExtractResult{
		Title:       strings.TrimSpace(e.text.Sanitize(r.Title)),
		ContentHTML: content,
	}, nil
}
