// Package goquery isolates the main documentation content of a page using
// CSS selectors chosen per documentation framework.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docharvest"
)

// ContentRule tells the extractor where a framework keeps its page body.
type ContentRule struct {
	// Content lists candidate selectors for the main content, tried in order.
	Content []string

	// Remove lists selectors stripped from the content before rendering.
	Remove []string
}

// noise is removed from every page regardless of framework.
var noise = []string{
	"script", "style", "noscript", "template", "iframe",
	"nav", "footer", "form", "button",
	"[role='navigation']", "[aria-hidden='true']",
}

// DefaultRules returns the content rules for the known frameworks.
func DefaultRules() map[docharvest.Framework]ContentRule {
	return map[docharvest.Framework]ContentRule{
		docharvest.FrameworkMkDocs: {
			Content: []string{"article.md-content__inner", ".md-content", "[data-md-component='content']"},
			Remove:  []string{".headerlink", ".md-source-file", ".md-feedback", ".md-content__button", ".md-sidebar", ".md-footer"},
		},
		docharvest.FrameworkDocusaurus: {
			Content: []string{".theme-doc-markdown", "article .markdown", "main article"},
			Remove:  []string{".hash-link", ".theme-doc-toc-mobile", ".theme-doc-footer", ".pagination-nav", ".theme-doc-breadcrumbs"},
		},
		docharvest.FrameworkSphinx: {
			Content: []string{"[itemprop='articleBody']", "div[role='main']", ".body", ".document"},
			Remove:  []string{".headerlink", ".rst-footer-buttons", ".sphinxsidebar"},
		},
		docharvest.FrameworkVitePress: {
			Content: []string{".vp-doc", ".VPDoc main", "#VPContent"},
			Remove:  []string{".header-anchor", ".VPDocFooter", ".VPDocAsideOutline"},
		},
		docharvest.FrameworkVuePress: {
			Content: []string{".theme-default-content", ".page .content"},
			Remove:  []string{".header-anchor", ".page-edit", ".page-nav"},
		},
		docharvest.FrameworkGitBook: {
			Content: []string{"main", "[data-testid='page.contentEditor']"},
			Remove:  []string{"[data-testid='page.desktopTableOfContents']", "aside"},
		},
		docharvest.FrameworkNextra: {
			Content: []string{"main article", "article", "main"},
			Remove:  []string{".nextra-toc", ".nextra-sidebar", ".subheading-anchor"},
		},
	}
}

// genericRule applies when the framework is unknown or has no rule.
var genericRule = ContentRule{
	Content: []string{"main article", "article", "main", "[role='main']", "#content", ".content", "body"},
	Remove:  []string{"header", "aside"},
}

// Ensure ContentExtractor implements docharvest.Extractor at compile time.
var _ docharvest.Extractor = (*ContentExtractor)(nil)

// ContentExtractor extracts the main content of documentation pages.
type ContentExtractor struct {
	detector *Detector
	rules    map[docharvest.Framework]ContentRule
}

// NewContentExtractor creates a ContentExtractor using DefaultRules.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		detector: NewDetector(),
		rules:    DefaultRules(),
	}
}

// Register sets the rule for a framework, replacing any existing rule.
func (e *ContentExtractor) Register(framework docharvest.Framework, rule ContentRule) {
	e.rules[framework] = rule
}

// Extract returns the page title and the HTML of its main content.
// A page whose content selectors match nothing falls back to <body>.
func (e *ContentExtractor) Extract(rawHTML string) (*docharvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docharvest.Errorf(docharvest.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docharvest.Errorf(docharvest.EINVALID, "failed to parse HTML: %v", err)
	}

	rule, ok := e.rules[e.detector.DetectDocument(doc)]
	if !ok {
		rule = genericRule
	}

	content := selectContent(doc, rule.Content)
	if content == nil {
		content = doc.Find("body")
	}
	for _, sel := range noise {
		content.Find(sel).Remove()
	}
	for _, sel := range rule.Remove {
		content.Find(sel).Remove()
	}

	title := pageTitle(doc)
	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content.Text()) == "" {
		return nil, docharvest.Errorf(docharvest.ENOTFOUND, "no content found")
	}

	return &docharvest.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// selectContent returns the first non-empty match among selectors.
func selectContent(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		s := doc.Find(sel).First()
		if s.Length() > 0 && strings.TrimSpace(s.Text()) != "" {
			return s
		}
	}
	return nil
}

// pageTitle prefers the first <h1> over the document <title>, which often
// carries a site suffix.
func pageTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
