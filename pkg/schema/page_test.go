package schema

import (
	"testing"
	"time"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

func compose(t *testing.T, cfg Config, page PageSummary) []*graph.Node {
	t.Helper()
	return ComposePage(cfg, BuildEntities(cfg, nil), page, nil)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		wantCat  Category
		wantKind string
	}{
		{"home", CategoryHome, ""},
		{"Post", CategoryPost, ""},
		{"special:contact", CategorySpecial, "contact"},
		{"generic", CategoryGeneric, ""},
		{"", CategoryGeneric, ""},
		{"archive", CategoryGeneric, ""},
	}
	for _, tt := range tests {
		cat, kind := ParseCategory(tt.input)
		if cat != tt.wantCat || kind != tt.wantKind {
			t.Errorf("ParseCategory(%q) = %q, %q; want %q, %q", tt.input, cat, kind, tt.wantCat, tt.wantKind)
		}
	}
}

func TestComposeHome(t *testing.T) {
	nodes := compose(t, siteConfig(), PageSummary{Category: "home", URL: "https://x.test/ignored"})
	if len(nodes) != 1 {
		t.Fatalf("nodes = %v", ids(nodes))
	}
	home := nodes[0]
	if home.ID != "https://x.test/#webpage" {
		t.Errorf("id = %q", home.ID)
	}
	if got := home.String("url"); got != "https://x.test/" {
		t.Errorf("url = %q, want site root", got)
	}
	if got := home.String("name"); got != "Acme" {
		t.Errorf("name = %q, want site name", got)
	}
	if v, _ := home.Get("isPartOf"); v != graph.RefTo("https://x.test/#website") {
		t.Errorf("isPartOf = %v", v)
	}

	v, _ := home.Get("about")
	about, _ := v.([]any)
	if len(about) != 2 ||
		about[0] != graph.RefTo("https://x.test/#organization") ||
		about[1] != graph.RefTo("https://x.test/#person") {
		t.Errorf("about = %v", v)
	}
	if _, ok := home.Get("breadcrumb"); ok {
		t.Error("home page should not carry a breadcrumb")
	}
}

func TestComposeSpecial(t *testing.T) {
	tests := []struct {
		name     string
		page     PageSummary
		special  map[string]SpecialConfig
		wantType string
		wantID   string
	}{
		{
			name:     "Contact",
			page:     PageSummary{Category: "special:contact", URL: "https://x.test/contact", Title: "Contact"},
			wantType: "ContactPage",
			wantID:   "https://x.test/contact#webpage",
		},
		{
			name:     "SpecialKindField",
			page:     PageSummary{SpecialKind: "faq", URL: "/faq", Title: "FAQ"},
			wantType: "FAQPage",
			wantID:   "https://x.test/faq#webpage",
		},
		{
			name:     "PlainWebPageKind",
			page:     PageSummary{Category: "special:privacy", URL: "/privacy", Title: "Privacy"},
			wantType: "WebPage",
			wantID:   "https://x.test/privacy#webpage",
		},
		{
			name:     "UnknownKind",
			page:     PageSummary{Category: "special:lounge", URL: "/lounge", Title: "Lounge"},
			wantType: "WebPage",
			wantID:   "https://x.test/lounge#webpage",
		},
		{
			name:     "Override",
			page:     PageSummary{Category: "special:about", URL: "/about-us", Title: "About"},
			special:  map[string]SpecialConfig{"about": {IDSuffix: "/about/#page", Type: "ProfilePage"}},
			wantType: "ProfilePage",
			wantID:   "https://x.test/about/#page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := siteConfig()
			cfg.Special = tt.special
			nodes := compose(t, cfg, tt.page)
			if len(nodes) != 2 {
				t.Fatalf("nodes = %v", ids(nodes))
			}
			if nodes[0].Type != tt.wantType || nodes[0].ID != tt.wantID {
				t.Errorf("page = %s %q, want %s %q", nodes[0].Type, nodes[0].ID, tt.wantType, tt.wantID)
			}
			if nodes[1].Type != "BreadcrumbList" {
				t.Errorf("second node = %s", nodes[1].Type)
			}
		})
	}
}

func TestComposePost(t *testing.T) {
	published := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	page := PageSummary{
		Category:    "post",
		URL:         "https://x.test/hello-world",
		Title:       "Hello <em>World</em>",
		Excerpt:     "First post.",
		Body:        "<p>one two three</p>",
		PublishedAt: published,
		HeroImage:   "https://x.test/hero.jpg",
		ContentID:   "42",
	}
	nodes := compose(t, siteConfig(), page)
	if len(nodes) != 3 {
		t.Fatalf("nodes = %v", ids(nodes))
	}

	webpage, article, crumbs := nodes[0], nodes[1], nodes[2]
	if webpage.Type != "WebPage" || webpage.ID != "https://x.test/hello-world" {
		t.Errorf("page = %s %q", webpage.Type, webpage.ID)
	}
	if article.Type != "BlogPosting" || article.ID != "https://x.test/#article-42" {
		t.Errorf("article = %s %q", article.Type, article.ID)
	}
	if crumbs.ID != "https://x.test/hello-world#breadcrumb" {
		t.Errorf("breadcrumb = %q", crumbs.ID)
	}

	refs := map[string]string{
		"mainEntityOfPage": "https://x.test/hello-world",
		"author":           "https://x.test/#person",
		"publisher":        "https://x.test/#organization",
	}
	for key, want := range refs {
		if v, _ := article.Get(key); v != graph.RefTo(want) {
			t.Errorf("%s = %v, want ref %s", key, v, want)
		}
	}

	if got := article.String("headline"); got != "Hello World" {
		t.Errorf("headline = %q", got)
	}
	if got := article.String("description"); got != "First post." {
		t.Errorf("description = %q", got)
	}
	if got := article.String("datePublished"); got != "2024-03-01T09:30:00Z" {
		t.Errorf("datePublished = %q", got)
	}
	if _, ok := article.Get("dateModified"); ok {
		t.Error("zero dateModified should be omitted")
	}
	if v, _ := article.Get("wordCount"); v != 3 {
		t.Errorf("wordCount = %v", v)
	}

	v, _ := article.Get("image")
	hero, ok := v.(*graph.Node)
	if !ok || hero.ID != "" || hero.String("url") != "https://x.test/hero.jpg" {
		t.Errorf("hero = %#v, want inline anonymous image", v)
	}
}

func TestComposePostAuthorFallback(t *testing.T) {
	cfg := siteConfig()
	cfg.Person.Enabled = false
	nodes := compose(t, cfg, PageSummary{Category: "post", URL: "/p", Title: "P", ContentID: "1"})
	if v, _ := nodes[1].Get("author"); v != graph.RefTo("https://x.test/#organization") {
		t.Errorf("author = %v", v)
	}

	cfg.Organization.Enabled = false
	cfg.Publisher.Enabled = false
	nodes = compose(t, cfg, PageSummary{Category: "post", URL: "/p", Title: "P", ContentID: "1"})
	for _, key := range []string{"author", "publisher"} {
		if _, ok := nodes[1].Get(key); ok {
			t.Errorf("%s should be omitted without entities", key)
		}
	}
}

func TestComposePostCustomType(t *testing.T) {
	nodes := compose(t, siteConfig(), PageSummary{
		Category:    "post",
		URL:         "/news/1",
		Title:       "News",
		ContentType: "NewsArticle",
	})
	if nodes[1].Type != "NewsArticle" || nodes[1].ID != "https://x.test/news/1#article" {
		t.Errorf("article = %s %q", nodes[1].Type, nodes[1].ID)
	}
}

func TestBreadcrumbCleaning(t *testing.T) {
	nodes := compose(t, siteConfig(), PageSummary{
		URL:   "https://x.test/p?utm_source=a&id=5#frag",
		Title: "Page",
	})
	crumbs := nodes[1]
	if crumbs.ID != "https://x.test/p?id=5#breadcrumb" {
		t.Errorf("breadcrumb id = %q", crumbs.ID)
	}
	v, _ := crumbs.Get("itemListElement")
	items := v.([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	first, second := items[0].(*graph.Node), items[1].(*graph.Node)
	if first.String("item") != "https://x.test/" || first.String("name") != "Acme" {
		t.Errorf("first item = %v/%v", first.String("item"), first.String("name"))
	}
	if second.String("item") != "https://x.test/p?id=5" {
		t.Errorf("second item = %q", second.String("item"))
	}
	if v, _ := second.Get("position"); v != 2 {
		t.Errorf("position = %v", v)
	}
	if v, _ := nodes[0].Get("breadcrumb"); v != crumbs.Ref() {
		t.Errorf("page breadcrumb ref = %v", v)
	}
}

func TestBreadcrumbsDisabled(t *testing.T) {
	cfg := siteConfig()
	cfg.DisableBreadcrumbs = true
	nodes := compose(t, cfg, PageSummary{URL: "/p", Title: "P"})
	if len(nodes) != 1 {
		t.Fatalf("nodes = %v", ids(nodes))
	}
	if _, ok := nodes[0].Get("breadcrumb"); ok {
		t.Error("breadcrumb reference without breadcrumb node")
	}
}

func TestComposeMissingData(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		page PageSummary
	}{
		{"NoTitle", siteConfig(), PageSummary{URL: "https://x.test/p"}},
		{"MarkupOnlyTitle", siteConfig(), PageSummary{URL: "https://x.test/p", Title: "<br>"}},
		{"NoURL", siteConfig(), PageSummary{Title: "T", Category: "post"}},
		{"NoSiteRoot", Config{}, PageSummary{URL: "https://x.test/p", Title: "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if nodes := compose(t, tt.cfg, tt.page); nodes != nil {
				t.Errorf("nodes = %v, want none", ids(nodes))
			}
		})
	}
}

func TestComposeDescriptionTruncated(t *testing.T) {
	cfg := siteConfig()
	cfg.DescriptionMax = 11
	nodes := compose(t, cfg, PageSummary{URL: "/p", Title: "P", Description: "word1 word2 word3"})
	if got := nodes[0].String("description"); got != "word1 word2" {
		t.Errorf("description = %q", got)
	}
}

func TestComposeDoesNotMutatePage(t *testing.T) {
	page := PageSummary{URL: "/p?utm_source=x", Title: " <b>P</b> ", Category: "post"}
	before := page
	compose(t, siteConfig(), page)
	if page != before {
		t.Error("page summary modified")
	}
}
