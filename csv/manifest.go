// Package csv reads extraction manifests: CSV files whose rows name a
// category and a URL, optionally followed by a batch label.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/docharvest"
)

// Ensure ManifestReader implements docharvest.ManifestReader at compile time.
var _ docharvest.ManifestReader = (*ManifestReader)(nil)

// ManifestReader parses rows of the form category,url[,batch].
// A first row whose URL column is not an absolute http(s) URL is treated
// as a header. Rows with fewer than two fields or an invalid URL are
// skipped and their count is logged. A blank category is left empty for
// the classifier to fill in.
// It holds no per-read state and is safe for concurrent use.
type ManifestReader struct {
	logger *slog.Logger
}

// NewManifestReader creates a new ManifestReader. A nil logger discards.
func NewManifestReader(logger *slog.Logger) *ManifestReader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ManifestReader{logger: logger}
}

// ReadManifest returns the targets listed in r in file order.
func (m *ManifestReader) ReadManifest(r io.Reader) ([]docharvest.Target, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comment = '#'

	skipped := 0
	targets := []docharvest.Target{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, docharvest.Errorf(docharvest.EINVALID, "read manifest: %v", err)
		}

		isFirst := first
		first = false

		if len(rec) < 2 {
			skipped++
			continue
		}
		rawURL := strings.TrimSpace(rec[1])
		if !isHTTPURL(rawURL) {
			if !isFirst {
				skipped++
			}
			continue
		}

		t := docharvest.Target{
			Category: strings.TrimSpace(rec[0]),
			URL:      rawURL,
		}
		if len(rec) > 2 {
			t.Batch = strings.TrimSpace(rec[2])
		}
		targets = append(targets, t)
	}
	if skipped > 0 {
		m.logger.Warn("skipped manifest rows", "rows", skipped, "targets", len(targets))
	}
	return targets, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
