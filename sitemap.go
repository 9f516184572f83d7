package docharvest

import "context"

// SitemapService lists page URLs published in a sitemap.
type SitemapService interface {
	// DiscoverURLs returns every <loc> of the sitemap at sitemapURL in
	// document order, without duplicates. Sitemap indexes are resolved
	// recursively. The URLs carry no category.
	DiscoverURLs(ctx context.Context, sitemapURL string) ([]string, error)
}
