package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/docharvest"
)

var (
	_ docharvest.TargetSource = (*ManifestSource)(nil)
	_ docharvest.TargetSource = (*SitemapSource)(nil)
)

// ManifestSource reads targets from a manifest file.
type ManifestSource struct {
	Path       string
	Reader     docharvest.ManifestReader
	Classifier *docharvest.Classifier

	// Categories restricts targets to the named categories; nil keeps all.
	Categories map[string]bool
	// Batch restricts targets to one manifest batch; empty keeps all.
	Batch string
}

// Targets returns the manifest rows with priorities assigned.
func (s *ManifestSource) Targets(ctx context.Context) ([]docharvest.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docharvest.Errorf(docharvest.ENOTFOUND, "manifest %s not found", s.Path)
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	targets, err := s.Reader.ReadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", s.Path, err)
	}

	out := make([]docharvest.Target, 0, len(targets))
	for _, t := range s.Classifier.Assign(targets) {
		if s.Batch != "" && t.Batch != s.Batch {
			continue
		}
		if s.Categories != nil && !s.Categories[t.Category] {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// SitemapSource discovers targets from a sitemap and classifies them.
type SitemapSource struct {
	URL        string
	Sitemaps   docharvest.SitemapService
	Classifier *docharvest.Classifier

	// Categories restricts targets to the named categories; nil keeps all.
	Categories map[string]bool
}

// Targets returns the sitemap URLs in document order with categories and
// priorities assigned.
func (s *SitemapSource) Targets(ctx context.Context) ([]docharvest.Target, error) {
	urls, err := s.Sitemaps.DiscoverURLs(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	out := make([]docharvest.Target, 0, len(urls))
	for _, u := range urls {
		category, priority := s.Classifier.Classify(u)
		if s.Categories != nil && !s.Categories[category] {
			continue
		}
		out = append(out, docharvest.Target{URL: u, Category: category, Priority: priority})
	}
	return out, nil
}
