package schema_test

import (
	"fmt"

	"github.com/matzehuels/ldgraph/pkg/schema"
)

func ExampleBuild() {
	cfg := schema.Config{
		SiteURL:      "https://example.com",
		SiteName:     "Example",
		Organization: schema.OrganizationConfig{Enabled: true, Name: "Example Co"},
		Publisher:    schema.PublisherConfig{Enabled: true},
	}
	page := schema.PageSummary{
		Category:  "post",
		URL:       "https://example.com/hello?utm_source=newsletter",
		Title:     "Hello",
		ContentID: "1",
	}

	doc := schema.Build(cfg, page, nil)
	for _, n := range doc.Graph {
		fmt.Println(n.Type, n.ID)
	}
	// Output:
	// WebSite https://example.com/#website
	// Organization https://example.com/#organization
	// WebPage https://example.com/hello?utm_source=newsletter
	// BlogPosting https://example.com/#article-1
	// BreadcrumbList https://example.com/hello#breadcrumb
}

func ExampleNormalizeText() {
	fmt.Println(schema.NormalizeText("<p>word1   word2 word3</p>", 11))
	// Output: word1 word2
}

func ExampleCleanURL() {
	fmt.Println(schema.CleanURL("https://x.test/p?utm_source=a&id=5#frag"))
	// Output: https://x.test/p?id=5
}
