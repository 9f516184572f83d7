package extract_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/csv"
	"github.com/fwojciec/docharvest/extract"
	"github.com/fwojciec/docharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T) *docharvest.Classifier {
	t.Helper()
	c, err := docharvest.NewClassifier(docharvest.DefaultCategories())
	require.NoError(t, err)
	return c
}

func TestManifestSource_Targets(t *testing.T) {
	t.Parallel()

	manifest := "category,url,batch\n" +
		"workflows,https://docs.n8n.io/workflows/intro,1\n" +
		",https://docs.n8n.io/api/api-reference/,1\n" +
		"workflows,https://docs.n8n.io/workflows/tags,2\n"

	write := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "urls_to_extract.csv")
		require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
		return path
	}

	t.Run("assigns categories and priorities", func(t *testing.T) {
		t.Parallel()

		c := newClassifier(t)
		s := &extract.ManifestSource{Path: write(t), Reader: csv.NewManifestReader(nil), Classifier: c}

		targets, err := s.Targets(context.Background())

		require.NoError(t, err)
		require.Len(t, targets, 3)
		assert.Equal(t, "workflows", targets[0].Category)
		assert.Equal(t, c.Priority("workflows"), targets[0].Priority)
		assert.Equal(t, "api", targets[1].Category)
		assert.Equal(t, 1, targets[1].Priority)
	})

	t.Run("filters by batch and category", func(t *testing.T) {
		t.Parallel()

		s := &extract.ManifestSource{
			Path:       write(t),
			Reader:     csv.NewManifestReader(nil),
			Classifier: newClassifier(t),
			Categories: map[string]bool{"workflows": true},
			Batch:      "1",
		}

		targets, err := s.Targets(context.Background())

		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, "https://docs.n8n.io/workflows/intro", targets[0].URL)
	})

	t.Run("missing manifest is not found", func(t *testing.T) {
		t.Parallel()

		s := &extract.ManifestSource{
			Path:       filepath.Join(t.TempDir(), "nope.csv"),
			Reader:     csv.NewManifestReader(nil),
			Classifier: newClassifier(t),
		}

		_, err := s.Targets(context.Background())

		assert.Equal(t, docharvest.ENOTFOUND, docharvest.ErrorCode(err))
	})

	t.Run("returns reader errors", func(t *testing.T) {
		t.Parallel()

		s := &extract.ManifestSource{
			Path: write(t),
			Reader: &mock.ManifestReader{
				ReadManifestFn: func(io.Reader) ([]docharvest.Target, error) {
					return nil, docharvest.Errorf(docharvest.EINVALID, "read manifest: bad quote")
				},
			},
			Classifier: newClassifier(t),
		}

		_, err := s.Targets(context.Background())

		assert.Equal(t, docharvest.EINVALID, docharvest.ErrorCode(err))
	})
}

func TestSitemapSource_Targets(t *testing.T) {
	t.Parallel()

	t.Run("classifies discovered URLs in order", func(t *testing.T) {
		t.Parallel()

		var requested string
		s := &extract.SitemapSource{
			URL: "https://docs.n8n.io/sitemap.xml",
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, u string) ([]string, error) {
					requested = u
					return []string{
						"https://docs.n8n.io/courses/level-one/",
						"https://docs.n8n.io/unknown/page/",
					}, nil
				},
			},
			Classifier: newClassifier(t),
		}

		targets, err := s.Targets(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "https://docs.n8n.io/sitemap.xml", requested)
		assert.Equal(t, []docharvest.Target{
			{URL: "https://docs.n8n.io/courses/level-one/", Category: "courses", Priority: 1},
			{URL: "https://docs.n8n.io/unknown/page/", Category: docharvest.CategoryOther, Priority: docharvest.PriorityOther},
		}, targets)
	})

	t.Run("applies category filter", func(t *testing.T) {
		t.Parallel()

		s := &extract.SitemapSource{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string) ([]string, error) {
					return []string{"https://docs.n8n.io/courses/x/", "https://docs.n8n.io/zzz/"}, nil
				},
			},
			Classifier: newClassifier(t),
			Categories: map[string]bool{docharvest.CategoryOther: true},
		}

		targets, err := s.Targets(context.Background())

		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, "https://docs.n8n.io/zzz/", targets[0].URL)
	})

	t.Run("wraps discovery errors", func(t *testing.T) {
		t.Parallel()

		s := &extract.SitemapSource{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string) ([]string, error) {
					return nil, errors.New("boom")
				},
			},
			Classifier: newClassifier(t),
		}

		_, err := s.Targets(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sitemap discovery")
	})
}
