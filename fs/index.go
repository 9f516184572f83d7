package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docharvest"
)

// maxMarkerLine bounds how much of an artifact is read to find its marker.
const maxMarkerLine = 64 * 1024

// Ensure Index implements docharvest.StateIndex at compile time.
var _ docharvest.StateIndex = (*Index)(nil)

// Index reconstructs extraction state from the provenance markers of the
// artifacts under the output root. The URL map it builds is owned by the
// Index; callers receive it but must not modify it.
type Index struct {
	root    string
	logger  *slog.Logger
	records map[string]*docharvest.ExtractionRecord
}

// NewIndex creates an Index over root. A nil logger discards output.
func NewIndex(root string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Index{root: root, logger: logger}
}

// PurgeInvalid removes empty artifacts, truncated artifacts and temporary
// files left behind by interrupted writes.
func (idx *Index) PurgeInvalid(ctx context.Context) (int, error) {
	dirs, err := idx.categoryDirs()
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			idx.logger.Warn("read category directory", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if !isTempFile(e.Name()) && !isArtifact(e.Name()) {
				continue
			}
			if !isTempFile(e.Name()) {
				invalid, err := isInvalid(path)
				if err != nil {
					idx.logger.Warn("inspect artifact", "path", path, "error", err)
					continue
				}
				if !invalid {
					continue
				}
			}
			if err := os.Remove(path); err != nil {
				idx.logger.Warn("remove invalid artifact", "path", path, "error", err)
				continue
			}
			idx.logger.Debug("purged artifact", "path", path)
			purged++
		}
	}
	// Removed files may have been indexed already.
	if purged > 0 {
		idx.records = nil
	}
	return purged, nil
}

// Scan rebuilds the URL to record map. Empty or truncated files, files
// without a valid marker and files that cannot be read are skipped, so
// their URLs will be fetched again. Nothing is removed.
func (idx *Index) Scan(ctx context.Context) (map[string]*docharvest.ExtractionRecord, error) {
	dirs, err := idx.categoryDirs()
	if err != nil {
		return nil, err
	}

	records := make(map[string]*docharvest.ExtractionRecord)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			idx.logger.Warn("read category directory", "dir", dir, "error", err)
			continue
		}
		category := filepath.Base(dir)
		for _, e := range entries {
			if !e.Type().IsRegular() || !isArtifact(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			invalid, err := isInvalid(path)
			if err != nil {
				idx.logger.Warn("skip unreadable artifact", "path", path, "error", err)
				continue
			}
			if invalid {
				idx.logger.Debug("skip invalid artifact", "path", path)
				continue
			}
			rec, err := readRecord(path, category)
			if err != nil {
				idx.logger.Warn("skip unreadable artifact", "path", path, "error", err)
				continue
			}
			if rec == nil {
				idx.logger.Debug("skip artifact without marker", "path", path)
				continue
			}
			if prev, ok := records[rec.SourceURL]; ok {
				idx.logger.Debug("duplicate provenance", "url", rec.SourceURL, "kept", prev.Path, "ignored", path)
				continue
			}
			records[rec.SourceURL] = rec
		}
	}

	idx.records = records
	idx.logger.Debug("scanned output", "root", idx.root, "artifacts", len(records))
	return records, nil
}

// Missing partitions targets into already extracted and missing using the
// last scan, scanning first if none has been done. A URL counts as present
// when its marker was indexed or when a valid file exists at its expected
// path; empty and truncated files never count.
// Duplicate URLs are counted once, under their first category.
func (idx *Index) Missing(ctx context.Context, targets []docharvest.Target) (*docharvest.Completeness, error) {
	if idx.records == nil {
		if _, err := idx.Scan(ctx); err != nil {
			return nil, err
		}
	}

	c := &docharvest.Completeness{ToExtract: []docharvest.Target{}}
	byCategory := make(map[string]int)
	seen := make(map[string]bool, len(targets))

	for _, t := range targets {
		if seen[t.URL] {
			continue
		}
		seen[t.URL] = true

		i, ok := byCategory[t.Category]
		if !ok {
			i = len(c.Categories)
			byCategory[t.Category] = i
			c.Categories = append(c.Categories, docharvest.CategoryCompleteness{Category: t.Category})
		}
		cat := &c.Categories[i]

		c.Total++
		cat.Total++
		if idx.present(t) {
			c.AlreadyExtracted++
			cat.Extracted++
			continue
		}
		c.Missing++
		cat.Missing++
		c.ToExtract = append(c.ToExtract, t)
	}
	return c, nil
}

func (idx *Index) present(t docharvest.Target) bool {
	if _, ok := idx.records[t.URL]; ok {
		return true
	}
	if validateCategory(t.Category) != nil {
		return false
	}
	path := ArtifactPath(idx.root, t.Category, t.URL)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	invalid, err := isInvalid(path)
	return err == nil && !invalid
}

// categoryDirs lists the category directories under root in name order.
// A missing root yields no directories.
func (idx *Index) categoryDirs() ([]string, error) {
	entries, err := os.ReadDir(idx.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(idx.root, e.Name()))
		}
	}
	return dirs, nil
}

func isArtifact(name string) bool {
	return strings.HasSuffix(name, ArtifactExt) && !strings.HasPrefix(name, ".")
}

// isInvalid reports whether the file at path is empty or truncated.
func isInvalid(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	if info.Size() >= MinArtifactSize {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(data))) < MinContentLength, nil
}

// readRecord reads the marker of the artifact at path. It returns nil
// without error when the file has no valid marker.
func readRecord(path, category string) (*docharvest.ExtractionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(io.LimitReader(f, maxMarkerLine)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	url, ok := ParseMarker(line)
	if !ok {
		return nil, nil
	}
	return &docharvest.ExtractionRecord{
		SourceURL: url,
		Category:  category,
		Path:      path,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// ParseMarker extracts the source URL from an artifact's first line.
// Both "# <url>" and "# URL: <url>" are accepted.
func ParseMarker(line string) (string, bool) {
	line = strings.TrimPrefix(line, "\ufeff")
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "# ")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if after, ok := strings.CutPrefix(rest, "URL:"); ok {
		rest = strings.TrimSpace(after)
	}
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return "", false
	}
	if strings.ContainsAny(rest, " \t") {
		return "", false
	}
	return rest, true
}
