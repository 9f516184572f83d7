package goquery_test

import (
	"testing"

	"github.com/fwojciec/docharvest"
	"github.com/fwojciec/docharvest/goquery"
	"github.com/stretchr/testify/assert"
)

// Ensure Detector implements docharvest.FrameworkDetector at compile time.
var _ docharvest.FrameworkDetector = (*goquery.Detector)(nil)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want docharvest.Framework
	}{
		{
			name: "MkDocs Material from data attributes",
			html: `<html><body data-md-color-scheme="default"><div class="md-content" data-md-component="content"><article>Text</article></div></body></html>`,
			want: docharvest.FrameworkMkDocs,
		},
		{
			name: "MkDocs from generator meta",
			html: `<html><head><meta name="generator" content="mkdocs-1.5.3, mkdocs-material-9.4.0"></head><body></body></html>`,
			want: docharvest.FrameworkMkDocs,
		},
		{
			name: "Docusaurus from skip link",
			html: `<html><body><a id="__docusaurus_skipToContent_fallback" href="#x">Skip</a></body></html>`,
			want: docharvest.FrameworkDocusaurus,
		},
		{
			name: "Sphinx from generator meta",
			html: `<html><head><meta name="generator" content="Docutils 0.17.1: http://docutils.sourceforge.net/ Sphinx 7.2"></head></html>`,
			want: docharvest.FrameworkSphinx,
		},
		{
			name: "Sphinx ReadTheDocs theme",
			html: `<html><body><nav class="wy-nav-side"></nav></body></html>`,
			want: docharvest.FrameworkSphinx,
		},
		{
			name: "VitePress before VuePress",
			html: `<html><body><div id="VPContent"><div class="theme-default-content"></div></div></body></html>`,
			want: docharvest.FrameworkVitePress,
		},
		{
			name: "VuePress",
			html: `<html><body><div class="theme-default-content">Doc</div></body></html>`,
			want: docharvest.FrameworkVuePress,
		},
		{
			name: "GitBook from html classes",
			html: `<html class="circular-corners theme-clean"><body></body></html>`,
			want: docharvest.FrameworkGitBook,
		},
		{
			name: "GitBook needs two classes",
			html: `<html class="tint"><body></body></html>`,
			want: docharvest.FrameworkUnknown,
		},
		{
			name: "Nextra",
			html: `<html><body><nav class="nextra-navbar"></nav></body></html>`,
			want: docharvest.FrameworkNextra,
		},
		{
			name: "plain page",
			html: `<html><body><main><p>Hello</p></main></body></html>`,
			want: docharvest.FrameworkUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := goquery.NewDetector()

			assert.Equal(t, tt.want, d.Detect(tt.html))
		})
	}
}
