package schema

import (
	"strings"
	"time"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Category is a page category.
type Category string

// Page categories.
const (
	CategoryHome    Category = "home"
	CategoryPost    Category = "post"
	CategorySpecial Category = "special"
	CategoryGeneric Category = "generic"
)

// ParseCategory parses "home", "post", "generic" or "special:<kind>". Anything
// else is generic. The second result is the special kind, if any.
func ParseCategory(s string) (Category, string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if kind, ok := strings.CutPrefix(s, "special:"); ok {
		return CategorySpecial, kind
	}
	switch Category(s) {
	case CategoryHome, CategoryPost, CategorySpecial:
		return Category(s), ""
	}
	return CategoryGeneric, ""
}

// PageSummary describes the page being rendered. The composer only reads it.
type PageSummary struct {
	URL         string    `toml:"url" yaml:"url" json:"url,omitempty"`
	Title       string    `toml:"title" yaml:"title" json:"title,omitempty"`
	Description string    `toml:"description" yaml:"description" json:"description,omitempty"`
	Excerpt     string    `toml:"excerpt" yaml:"excerpt" json:"excerpt,omitempty"`
	Body        string    `toml:"body" yaml:"body" json:"body,omitempty"`
	PublishedAt time.Time `toml:"published_at" yaml:"published_at" json:"published_at,omitzero"`
	ModifiedAt  time.Time `toml:"modified_at" yaml:"modified_at" json:"modified_at,omitzero"`
	HeroImage   string    `toml:"hero_image" yaml:"hero_image" json:"hero_image,omitempty"`

	// Category is "home", "post", "generic" or "special:<kind>".
	Category string `toml:"category" yaml:"category" json:"category,omitempty"`
	// SpecialKind overrides the kind parsed from Category.
	SpecialKind string `toml:"special_kind" yaml:"special_kind" json:"special_kind,omitempty"`

	ContentID   string `toml:"content_id" yaml:"content_id" json:"content_id,omitempty"`
	ContentType string `toml:"content_type" yaml:"content_type" json:"content_type,omitempty"`
}

// Kind returns the parsed category and special kind.
func (p PageSummary) Kind() (Category, string) {
	cat, kind := ParseCategory(p.Category)
	if p.SpecialKind != "" {
		cat, kind = CategorySpecial, strings.ToLower(p.SpecialKind)
	}
	return cat, kind
}

// specialTypes maps special page kinds to node types. Kinds not listed are
// plain WebPages.
var specialTypes = map[string]string{
	"contact":       "ContactPage",
	"about":         "AboutPage",
	"faq":           "FAQPage",
	"search":        "SearchResultsPage",
	"checkout":      "CheckoutPage",
	"profile":       "ProfilePage",
	"collection":    "CollectionPage",
	"privacy":       "WebPage",
	"accessibility": "WebPage",
	"terms":         "WebPage",
}

// SpecialType returns the node type for a special page kind.
func SpecialType(kind string) string {
	if t, ok := specialTypes[kind]; ok {
		return t
	}
	return "WebPage"
}

// DefaultContentType is the content node type for posts.
const DefaultContentType = "BlogPosting"

// =============================================================================
// Page Node Composer
// =============================================================================

// ComposePage builds the nodes for one page: a page node, an article for
// posts and a breadcrumb list for non-home pages. Entities are referenced by
// id only. It returns nil when no name or URL can be derived for the page.
// When lookup is nil, cfg.Media is used.
func ComposePage(cfg Config, ents *Entities, page PageSummary, lookup MediaLookup) []*graph.Node {
	root := cfg.Root()
	if root == "" {
		return nil
	}
	c := &composer{
		cfg:    cfg,
		ents:   ents,
		page:   page,
		lookup: lookupOrConfig(lookup, cfg),
		root:   root,
	}

	cat, kind := page.Kind()
	switch cat {
	case CategoryHome:
		return c.home()
	case CategorySpecial:
		return c.special(kind)
	case CategoryPost:
		return c.post()
	default:
		return c.generic()
	}
}

type composer struct {
	cfg    Config
	ents   *Entities
	page   PageSummary
	lookup MediaLookup
	root   string
}

func (c *composer) home() []*graph.Node {
	name := NormalizeText(firstNonEmpty(c.page.Title, c.cfg.siteName()), 0)
	if name == "" {
		return nil
	}
	n := c.pageNode("WebPage", c.root+"#webpage", c.root, name)

	// Both identities, whichever exist.
	var about []any
	for _, key := range []string{KeyOrganization, KeyPerson} {
		if ref := c.ents.Ref(key); !ref.IsZero() {
			about = append(about, ref)
		}
	}
	n.Set("about", about)
	return []*graph.Node{n}
}

func (c *composer) special(kind string) []*graph.Node {
	url, name := c.urlAndName()
	if url == "" || name == "" {
		return nil
	}

	typ := SpecialType(kind)
	id := url + "#webpage"
	if o, ok := c.cfg.Special[kind]; ok {
		if o.Type != "" {
			typ = o.Type
		}
		if o.IDSuffix != "" {
			id = c.root + strings.TrimPrefix(o.IDSuffix, "/")
		}
	}
	return c.withBreadcrumb(c.pageNode(typ, id, url, name), url, name)
}

func (c *composer) generic() []*graph.Node {
	url, name := c.urlAndName()
	if url == "" || name == "" {
		return nil
	}
	return c.withBreadcrumb(c.pageNode("WebPage", url, url, name), url, name)
}

func (c *composer) post() []*graph.Node {
	url, name := c.urlAndName()
	if url == "" || name == "" {
		return nil
	}
	page := c.pageNode("WebPage", url, url, name)

	typ := firstNonEmpty(c.page.ContentType, DefaultContentType)
	id := url + "#article"
	if c.page.ContentID != "" {
		id = c.root + "#article-" + c.page.ContentID
	}

	article := graph.New(typ, id).
		Set("headline", NormalizeText(c.page.Title, c.cfg.headlineMax())).
		Set("description", c.description()).
		Set("url", url).
		Set("datePublished", formatTime(c.page.PublishedAt)).
		Set("dateModified", formatTime(c.page.ModifiedAt)).
		Set("mainEntityOfPage", page.Ref()).
		Set("isPartOf", c.ents.Ref(KeyWebSite)).
		Set("author", c.author()).
		Set("publisher", c.ents.Ref(KeyPublisher)).
		Set("image", c.hero()).
		Set("inLanguage", c.cfg.Language)
	if body := NormalizeText(c.page.Body, 0); body != "" {
		article.Set("wordCount", wordCount(body))
	}

	nodes := c.withBreadcrumb(page, url, name)
	out := []*graph.Node{nodes[0], article}
	return append(out, nodes[1:]...)
}

// urlAndName returns the canonical page URL and its display name.
func (c *composer) urlAndName() (string, string) {
	return absoluteURL(c.root, c.page.URL), NormalizeText(c.page.Title, 0)
}

func (c *composer) pageNode(typ, id, url, name string) *graph.Node {
	return graph.New(typ, id).
		Set("url", url).
		Set("name", name).
		Set("description", c.description()).
		Set("isPartOf", c.ents.Ref(KeyWebSite)).
		Set("primaryImageOfPage", c.hero()).
		Set("datePublished", formatTime(c.page.PublishedAt)).
		Set("dateModified", formatTime(c.page.ModifiedAt)).
		Set("inLanguage", c.cfg.Language)
}

// withBreadcrumb appends the breadcrumb list for page and links it.
func (c *composer) withBreadcrumb(page *graph.Node, url, name string) []*graph.Node {
	if c.cfg.DisableBreadcrumbs {
		return []*graph.Node{page}
	}
	bc := Breadcrumb(c.root, c.cfg.siteName(), url, name)
	page.Set("breadcrumb", bc.Ref())
	return []*graph.Node{page, bc}
}

// Breadcrumb builds the two-item list root → page. The page URL is cleaned
// of tracking parameters before it is embedded.
func Breadcrumb(root, rootName, pageURL, pageName string) *graph.Node {
	clean := CleanURL(pageURL)
	items := []any{
		listItem(1, firstNonEmpty(rootName, "Home"), root),
		listItem(2, pageName, clean),
	}
	return graph.New("BreadcrumbList", clean+"#breadcrumb").
		Set("itemListElement", items)
}

func listItem(pos int, name, item string) *graph.Node {
	return graph.New("ListItem", "").
		Set("position", pos).
		Set("name", name).
		Set("item", item)
}

func (c *composer) description() string {
	return NormalizeText(c.page.Describe(), c.cfg.DescriptionMax)
}

// hero returns the inline hero image, or nil.
func (c *composer) hero() *graph.Node {
	a, ok := ResolveAsset(c.lookup, c.page.HeroImage)
	if !ok {
		return nil
	}
	return InlineImage(a)
}

// author prefers the Person and falls back to the Organization.
func (c *composer) author() graph.Ref {
	if ref := c.ents.Ref(KeyPerson); !ref.IsZero() {
		return ref
	}
	return c.ents.Ref(KeyOrganization)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
