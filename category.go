package docharvest

import (
	"net/url"
	"regexp"
	"slices"
)

// CategoryOther is the sentinel category for URLs no pattern matches.
const CategoryOther = "other"

// PriorityOther is the priority of CategoryOther. Lower priorities are
// scheduled first, so unmatched URLs are always processed last.
const PriorityOther = 99

// CategoriesVersion identifies the revision of DefaultCategories. Bump it
// whenever a pattern is added, removed or reordered.
const CategoriesVersion = 3

// Category is a named partition of URLs with its own output directory and
// scheduling priority.
type Category struct {
	Name     string
	Priority int
	Patterns []*regexp.Regexp
}

// NewCategory compiles patterns into a Category.
// Patterns use regexp search semantics against the URL path.
func NewCategory(name string, priority int, patterns ...string) (Category, error) {
	if name == "" {
		return Category{}, Errorf(EINVALID, "category name required")
	}
	c := Category{Name: name, Priority: priority}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Category{}, Errorf(EINVALID, "category %q: invalid pattern %q: %v", name, p, err)
		}
		c.Patterns = append(c.Patterns, re)
	}
	return c, nil
}

// MustCategory is like NewCategory but panics on an invalid pattern.
func MustCategory(name string, priority int, patterns ...string) Category {
	c, err := NewCategory(name, priority, patterns...)
	if err != nil {
		panic(err)
	}
	return c
}

// Match reports whether any of the category's patterns matches path.
func (c Category) Match(path string) bool {
	for _, re := range c.Patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Classifier maps URLs to categories.
//
// Categories are tested in configured order and the first match wins, so a
// category declared earlier takes a URL even when a later category with a
// lower priority number also matches. Priority only affects scheduling.
type Classifier struct {
	categories []Category
	priorities map[string]int
}

// NewClassifier returns a Classifier over a copy of categories.
// A category named CategoryOther may be supplied to override its priority;
// its patterns are ignored because it only ever receives unmatched URLs.
func NewClassifier(categories []Category) (*Classifier, error) {
	c := &Classifier{priorities: map[string]int{CategoryOther: PriorityOther}}
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, Errorf(EINVALID, "category name required")
		}
		if seen[cat.Name] {
			return nil, Errorf(EINVALID, "duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		c.priorities[cat.Name] = cat.Priority
		if cat.Name == CategoryOther {
			continue
		}
		cat.Patterns = slices.Clone(cat.Patterns)
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// Classify returns the category and priority of rawURL.
// Only the path participates; query and fragment are ignored.
// URLs that cannot be parsed or match nothing fall into CategoryOther.
func (c *Classifier) Classify(rawURL string) (category string, priority int) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CategoryOther, c.priorities[CategoryOther]
	}
	for _, cat := range c.categories {
		if cat.Match(u.Path) {
			return cat.Name, cat.Priority
		}
	}
	return CategoryOther, c.priorities[CategoryOther]
}

// Priority returns the scheduling priority of a category.
// Unknown categories get the priority of CategoryOther.
func (c *Classifier) Priority(category string) int {
	if p, ok := c.priorities[category]; ok {
		return p
	}
	return c.priorities[CategoryOther]
}

// Assign returns a copy of targets with priorities set. Targets without a
// category are classified by URL; explicit categories are kept.
func (c *Classifier) Assign(targets []Target) []Target {
	out := make([]Target, len(targets))
	for i, t := range targets {
		if t.Category == "" {
			t.Category, t.Priority = c.Classify(t.URL)
		} else {
			t.Priority = c.Priority(t.Category)
		}
		out[i] = t
	}
	return out
}

// Names returns the category names in configured order, ending with CategoryOther.
func (c *Classifier) Names() []string {
	names := make([]string, 0, len(c.categories)+1)
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return append(names, CategoryOther)
}

// Filter validates a category filter and returns it as a set.
// An empty filter selects every category and returns nil.
func (c *Classifier) Filter(names []string) (map[string]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.priorities[name]; !ok {
			return nil, Errorf(EINVALID, "unknown category %q", name)
		}
		set[name] = true
	}
	return set, nil
}

// DefaultCategories returns the canonical category table for the n8n
// documentation site. Each call returns a fresh value.
func DefaultCategories() []Category {
	return []Category{
		MustCategory("api", 1,
			`/api/`,
			`/api-reference/`,
			`/authentication/`,
			`/pagination/`,
			`/using-api-playground/`,
		),
		MustCategory("courses", 1, `/courses/`),
		MustCategory("user_management", 1,
			`/user-management/`,
			`/rbac/`,
			`/saml/`,
			`/sso/`,
			`/2fa/`,
			`/projects/`,
			`/permissions/`,
		),
		MustCategory("hosting", 1,
			`/embed/configuration/`,
			`/embed/deployment/`,
			`/hosting/`,
			`/integrations/community-nodes/troubleshooting/`,
			`/integrations/community-nodes/installation/`,
		),
		MustCategory("non_categorized", 1,
			`/sustainable-use-license/`,
			`/video-courses/`,
			`/credentials/`,
			`/embed/`,
			`/flow-logic/`,
			`/help-community/`,
			`/manage-cloud/`,
			`/privacy-security/`,
			`/source-control-environments/`,
			`/release-notes/`,
			`/insights/`,
			`/choose-n8n/`,
			`/1-0-migration-checklist/`,
			`/advanced-ai/evaluations/`,
			`/advanced-ai/examples/`,
			`/advanced-ai/intro-tutorial/`,
			`/advanced-ai/rag-in-n8n/`,
			`/advanced-ai/`,
			`/data/`,
			`/log-streaming/`,
			`/license-key/`,
			`/glossary/`,
			`/guides/`,
			`/documentation/`,
		),
		MustCategory("langchain_agent", 2,
			`/integrations/builtin/cluster-nodes/root-nodes/n8n-nodes-langchain\.agent`,
			`/integrations/builtin/cluster-nodes/root-nodes/n8n-nodes-langchain\.code`,
			`/integrations/builtin/cluster-nodes/.*langchain`,
			`/advanced-ai/langchain`,
			`/advanced-ai/.*agent`,
			`/code/builtin/langchain-methods`,
			`/integrations/builtin/cluster-nodes/sub-nodes/.*langchain`,
			`/integrations/builtin/core-nodes/n8n-nodes-langchain`,
		),
		MustCategory("workflows", 3, `/workflows/`),
		MustCategory("code", 4, `/code/`, `/expressions/`, `/transformations/`),
		MustCategory("integrations", 5, `/integrations/`),
	}
}
