package schema

import (
	"bytes"
	"testing"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

func TestBuildDeterministic(t *testing.T) {
	cfg := siteConfig()
	cfg.SearchURL = "https://x.test/?s={search_term_string}"
	page := PageSummary{Category: "post", URL: "/p?utm_source=x", Title: "P", ContentID: "7", HeroImage: "logo"}

	render := func() []byte {
		data, err := graph.MarshalDocument(Build(cfg, page, nil))
		if err != nil {
			t.Fatalf("MarshalDocument: %v", err)
		}
		return data
	}

	first := render()
	for i := 0; i < 5; i++ {
		if next := render(); !bytes.Equal(first, next) {
			t.Fatalf("build %d differs:\n%s\n%s", i, first, next)
		}
	}
}

func TestBuildUniqueIDs(t *testing.T) {
	cfg := siteConfig()
	// A transform that re-adds an already built node under a second key must
	// not produce a duplicate.
	dup := WithTransform(func(m map[string]*Entity) map[string]*Entity {
		m["copy"] = m[KeyOrganization]
		return m
	})
	doc := Build(cfg, PageSummary{Category: "home"}, nil, dup)

	seen := make(map[string]bool)
	for _, n := range doc.Graph {
		if n.ID == "" {
			continue
		}
		if seen[n.ID] {
			t.Errorf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
	}
	if !seen["https://x.test/#webpage"] || !seen["https://x.test/#website"] {
		t.Errorf("ids = %v", doc.IDs())
	}
}

func TestBuildPageReferencesResolve(t *testing.T) {
	doc := Build(siteConfig(), PageSummary{Category: "post", URL: "/p", Title: "P", ContentID: "1"}, nil)

	for _, n := range doc.Graph {
		for _, key := range n.Attrs.Keys() {
			v, _ := n.Get(key)
			ref, ok := v.(graph.Ref)
			if !ok {
				continue
			}
			if _, found := doc.Node(ref.ID); !found {
				t.Errorf("%s.%s points at missing node %q", n.ID, key, ref.ID)
			}
		}
	}
}
