// Package docharvest bulk-extracts documentation pages into a local,
// resumable text archive. URLs are classified into categories, fetched by a
// bounded worker pool, converted from HTML to text and written as one file
// per page under output/<category>/<slug>.txt. The first line of every file
// records its source URL so a later run can tell what is already done
// without a separate index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, http/, htmltomarkdown/).
package docharvest
