package schema

import "github.com/matzehuels/ldgraph/pkg/graph"

// Build produces the complete graph document for one page: site entities
// first, then the page nodes, deduplicated by id. Identical inputs produce
// byte-identical output.
func Build(cfg Config, page PageSummary, lookup MediaLookup, opts ...BuildOption) graph.Document {
	ents := BuildEntities(cfg, lookup, opts...)
	return graph.Assemble(ents.Nodes(), ComposePage(cfg, ents, page, lookup))
}
