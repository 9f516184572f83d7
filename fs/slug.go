// Package fs provides the file-based artifact store and the extraction
// state index built on top of it.
package fs

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxSlugLength caps the length of a slug in characters.
const MaxSlugLength = 200

// ArtifactExt is the extension of every artifact file.
const ArtifactExt = ".txt"

var (
	nonWord     = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	underscores = regexp.MustCompile(`_+`)
)

// Slug converts text into a filesystem-safe name. Runs of characters other
// than letters, digits and underscores become a single underscore, leading
// and trailing underscores are removed and the result is capped at
// MaxSlugLength characters.
func Slug(text string) string {
	s := nonWord.ReplaceAllString(text, "_")
	s = underscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > MaxSlugLength {
		s = strings.TrimRight(string(r[:MaxSlugLength]), "_")
	}
	return s
}

// FileName returns the artifact file name for a URL.
// The name is derived from the URL path; when the path is empty the whole
// URL is slugified instead.
//
// Example: https://docs.example.com/workflows/intro → workflows_intro.txt
func FileName(rawURL string) string {
	var name string
	if u, err := url.Parse(rawURL); err == nil {
		name = Slug(u.Path)
	}
	if name == "" {
		name = Slug(rawURL)
	}
	if name == "" {
		name = "index"
	}
	return name + ArtifactExt
}

// ArtifactPath returns the expected location of the artifact for rawURL in
// category under root. It is the only mapping from URL to file, shared by
// the store and the index.
func ArtifactPath(root, category, rawURL string) string {
	return filepath.Join(root, category, FileName(rawURL))
}
