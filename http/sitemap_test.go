package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docharvest"
	dhhttp "github.com/fwojciec/docharvest/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs_URLSet(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/workflows/intro</loc></url>
  <url><loc> {{BASE}}/api/ </loc></url>
  <url><loc>{{BASE}}/workflows/intro</loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/workflows/intro", srv.URL + "/api/"}, urls)
}

func TestSitemapService_DiscoverURLs_SitemapIndex(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
</sitemapindex>`

	sitemapDocs := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
</urlset>`

	sitemapAPI := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/api/reference</loc></url>
  <url><loc>{{BASE}}/docs/intro</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-docs.xml": sitemapDocs,
		"/sitemap-api.xml":  sitemapAPI,
	})
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/api/reference"}, urls)
}

func TestSitemapService_DiscoverURLs_SiteRootUsesRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/docs-sitemap.xml
`
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":       robotsTxt,
		"/docs-sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, urls)
}

func TestSitemapService_DiscoverURLs_SiteRootFallsBackToSitemapXML(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/")

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1"}, urls)
}

func TestSitemapService_DiscoverURLs_EmptyURLSet(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`,
	})
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestSitemapService_DiscoverURLs_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing sitemap is a status error", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := dhhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

		var se *docharvest.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
	})

	t.Run("document without root element", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": "not xml at all",
		})
		defer srv.Close()

		svc := dhhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

		require.Error(t, err)
	})

	t.Run("invalid sitemap URL", func(t *testing.T) {
		t.Parallel()

		svc := dhhttp.NewSitemapService(nil)
		_, err := svc.DiscoverURLs(context.Background(), "not a url")

		assert.Equal(t, docharvest.EINVALID, docharvest.ErrorCode(err))
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<urlset></urlset>`,
		})
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := dhhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(ctx, srv.URL+"/sitemap.xml")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSitemapService_DiscoverURLs_SelfReferencingIndex(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(replaceBaseURL(`<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap.xml</loc></sitemap>
</sitemapindex>`, srv.URL)))
	}))
	defer srv.Close()

	svc := dhhttp.NewSitemapService(srv.Client())
	urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml")

	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Equal(t, int32(1), hits.Load())
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Use {{BASE}} in content to reference the server's URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = replaceBaseURL(body, srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return strings.ReplaceAll(content, "{{BASE}}", baseURL)
}
