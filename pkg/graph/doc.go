// Package graph provides the node model and wire format for structured-data graphs.
//
// This package defines the canonical in-memory and JSON-LD representation of the
// linked-data graphs ldgraph builds for a page, and the serialization types for
// layouts produced from captured graphs.
//
// # Core Types
//
//   - [Node]: a typed, optionally identified graph entry with ordered attributes
//   - [Ref]: a by-id pointer to a node, serialized as {"@id": "..."}
//   - [Document]: a single {"@context", "@graph"} document
//   - [Layout]: positioned nodes and edges for visualization
//
// # Wire Format
//
// Documents serialize as JSON-LD:
//
//	{
//	  "@context": "https://schema.org",
//	  "@graph": [
//	    {"@type": "WebSite", "@id": "https://example.com/#website", "url": "https://example.com"},
//	    {"@type": "WebPage", "@id": "https://example.com/about", "isPartOf": {"@id": "https://example.com/#website"}}
//	  ]
//	}
//
// Attribute order is insertion order. Two builds from identical inputs produce
// byte-identical output, which is what makes captured graphs diffable.
//
// # Identity
//
// A node with an @id appears exactly once per assembled document. Every other
// node refers to it with a [Ref]. [Assemble] enforces this by keeping the first
// occurrence of each @id.
//
// # Concurrency
//
// Nodes are plain values and are not safe for concurrent mutation.
package graph
