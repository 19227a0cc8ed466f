// Package pkg provides the core libraries for ldgraph, a schema.org JSON-LD
// graph engine.
//
// # Overview
//
// ldgraph builds the structured-data graph a website emits for each page and
// compares the graphs pages actually carry. The pkg directory is organized
// into these areas:
//
//  1. [schema] - Site entities, page nodes and the image resolver
//  2. [graph] - Nodes, documents, assembly and the layout format
//  3. [canon] - Canonical serialization and node keys
//  4. [capture] - Capture bundles, ld+json extraction and capturers
//  5. [diff] - Node and block comparison of two captures
//  6. [layout], [render] - Grid layouts and SVG/DOT/PDF/PNG output
//  7. [pipeline] - Cached orchestration shared by the CLI and [server]
//  8. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through ldgraph:
//
//	Site config + page summary
//	         ↓
//	    [schema] package (entities + page nodes)
//	         ↓
//	    [graph] package (assemble, dedupe, serialize)
//	         ↓
//	  rendered page → [capture] bundle → [diff] result
//	         ↓
//	    [layout] + [render] (grid → DOT → SVG/PDF/PNG)
//
// # Quick Start
//
//	doc := schema.Build(cfg, page, nil)
//	data, err := graph.MarshalDocument(doc)
//
//	res := diff.Compare(before, after, "server")
//	fmt.Println(res.Summary())
//
// [schema]: github.com/matzehuels/ldgraph/pkg/schema
// [graph]: github.com/matzehuels/ldgraph/pkg/graph
// [canon]: github.com/matzehuels/ldgraph/pkg/canon
// [capture]: github.com/matzehuels/ldgraph/pkg/capture
// [diff]: github.com/matzehuels/ldgraph/pkg/diff
// [layout]: github.com/matzehuels/ldgraph/pkg/layout
// [render]: github.com/matzehuels/ldgraph/pkg/render
// [pipeline]: github.com/matzehuels/ldgraph/pkg/pipeline
// [server]: github.com/matzehuels/ldgraph/pkg/server
// [cache]: github.com/matzehuels/ldgraph/pkg/cache
// [config]: github.com/matzehuels/ldgraph/pkg/config
// [errors]: github.com/matzehuels/ldgraph/pkg/errors
// [observability]: github.com/matzehuels/ldgraph/pkg/observability
package pkg
