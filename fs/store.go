package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docharvest"
)

const (
	// MinArtifactSize is the size in bytes an artifact must exceed to be
	// treated as already extracted when skipping existing work.
	MinArtifactSize = 100

	// MinContentLength is the trimmed content length below which a small
	// artifact is considered truncated.
	MinContentLength = 50
)

// FormatArtifact renders an artifact with its provenance header. The first
// line is always "# <source URL>".
func FormatArtifact(a *docharvest.Artifact) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(a.SourceURL)
	b.WriteString("\n# Extracted: ")
	b.WriteString(a.ExtractedAt.UTC().Format(time.RFC3339))
	if a.StatusCode != 0 {
		b.WriteString("\n# Status: ")
		b.WriteString(strconv.Itoa(a.StatusCode))
	}
	b.WriteString("\n\n")
	b.WriteString(artifactBody(a.Content))
	return b.String()
}

// artifactBody returns content as it is written after the header.
func artifactBody(content string) string {
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}

// ContentHash returns the xxhash of content as 16 hex digits.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// storedHash returns the content hash of the artifact at path if its
// marker names url. ok is false when the file is absent or belongs to
// another URL.
func storedHash(path, url string) (hash string, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	header, body, found := strings.Cut(string(data), "\n\n")
	if !found {
		return "", false
	}
	first, _, _ := strings.Cut(header, "\n")
	if marker, ok := ParseMarker(first); !ok || marker != url {
		return "", false
	}
	return ContentHash(body), true
}

// Ensure Store implements docharvest.ArtifactStore at compile time.
var _ docharvest.ArtifactStore = (*Store)(nil)

// Store writes artifacts as text files under root/<category>/.
type Store struct {
	root string
}

// NewStore creates a new Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the expected artifact path for url in category.
func (s *Store) Path(category, url string) string {
	return ArtifactPath(s.root, category, url)
}

// Exists reports whether the artifact for url is larger than MinArtifactSize.
func (s *Store) Exists(category, url string) bool {
	info, err := os.Stat(s.Path(category, url))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > MinArtifactSize
}

// Save writes the artifact atomically and returns its record. An existing
// artifact for the same URL whose content hashes the same is not rewritten,
// so refetching unchanged pages keeps their original header and mtime.
func (s *Store) Save(ctx context.Context, a *docharvest.Artifact) (*docharvest.ExtractionRecord, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := validateCategory(a.Category); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(a.Category, a.SourceURL)
	hash := ContentHash(artifactBody(a.Content))

	prev, ok := storedHash(path, a.SourceURL)
	unchanged := ok && prev == hash
	if !unchanged {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create category directory: %w", err)
		}
		if err := WriteFileAtomic(path, []byte(FormatArtifact(a))); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &docharvest.ExtractionRecord{
		SourceURL:   a.SourceURL,
		Category:    a.Category,
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentHash: hash,
		Unchanged:   unchanged,
	}, nil
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it over path, so readers see either the old file
// or the complete new one.
func WriteFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+tempInfix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

const tempInfix = ".tmp-"

func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, tempInfix)
}

func validateCategory(category string) error {
	if category == "." || category == ".." || strings.ContainsAny(category, `/\`) {
		return docharvest.Errorf(docharvest.EINVALID, "invalid category directory %q", category)
	}
	return nil
}
