package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docharvest"
)

// Detector identifies documentation frameworks from HTML content so the
// matching content rule can be applied. It checks meta generator tags
// first, then framework-specific classes and data attributes.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements docharvest.FrameworkDetector at compile time.
var _ docharvest.FrameworkDetector = (*Detector)(nil)

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) docharvest.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docharvest.FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument is like Detect for an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) docharvest.Framework {
	if framework := d.detectFromMetaGenerator(doc); framework != docharvest.FrameworkUnknown {
		return framework
	}

	// Check for Docusaurus markers
	if d.hasSelector(doc, "#__docusaurus_skipToContent_fallback") ||
		d.hasSelector(doc, ".theme-doc-sidebar-container") ||
		d.hasSelector(doc, "[data-rh]") && d.hasSelector(doc, "[data-theme]") {
		return docharvest.FrameworkDocusaurus
	}

	// Check for MkDocs Material markers
	if d.hasSelector(doc, "[data-md-color-scheme]") ||
		d.hasSelector(doc, "[data-md-component]") ||
		d.hasSelector(doc, ".md-nav--primary") {
		return docharvest.FrameworkMkDocs
	}

	// Check for Sphinx markers (including ReadTheDocs theme)
	if d.hasSelector(doc, ".toctree-wrapper") ||
		d.hasSelector(doc, ".wy-nav-side") ||
		d.hasSelector(doc, ".wy-menu-vertical") ||
		d.hasSelector(doc, ".sphinxsidebar") {
		return docharvest.FrameworkSphinx
	}

	// VitePress before VuePress: both may share legacy classes.
	if d.hasSelector(doc, "#VPContent") ||
		d.hasSelector(doc, ".VPDoc") ||
		d.hasSelector(doc, ".VPDocAsideOutline") {
		return docharvest.FrameworkVitePress
	}

	// Check for VuePress markers
	if d.hasSelector(doc, ".theme-default-content") ||
		d.hasSelector(doc, ".sidebar-links") ||
		d.hasSelector(doc, ".vuepress-navbar") {
		return docharvest.FrameworkVuePress
	}

	// Check for GitBook markers
	if d.hasSelector(doc, "[data-testid='space.sidebar']") ||
		d.hasSelector(doc, "[data-testid='page.desktopTableOfContents']") ||
		d.hasGitBookClasses(doc) {
		return docharvest.FrameworkGitBook
	}

	// Check for Nextra markers
	if d.hasSelector(doc, ".nextra-navbar") ||
		d.hasSelector(doc, ".nextra-sidebar") ||
		d.hasSelector(doc, ".nextra-toc") {
		return docharvest.FrameworkNextra
	}

	return docharvest.FrameworkUnknown
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) docharvest.Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))

	if generator == "" {
		return docharvest.FrameworkUnknown
	}

	switch {
	case strings.Contains(generator, "sphinx"):
		return docharvest.FrameworkSphinx
	case strings.Contains(generator, "gitbook"):
		return docharvest.FrameworkGitBook
	case strings.Contains(generator, "docusaurus"):
		return docharvest.FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return docharvest.FrameworkMkDocs
	case strings.Contains(generator, "vitepress"):
		return docharvest.FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return docharvest.FrameworkVuePress
	case strings.Contains(generator, "nextra"):
		return docharvest.FrameworkNextra
	}

	return docharvest.FrameworkUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses checks for GitBook-specific classes on the html element.
// GitBook uses a combination of: circular-corners, theme-clean, tint
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass := doc.Find("html").AttrOr("class", "")

	if htmlClass == "" {
		return false
	}

	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, c) {
			count++
		}
	}
	return count >= 2
}
