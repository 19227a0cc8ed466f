// Package layout places structured-data nodes on a grid for visual debugging.
//
// # Extraction
//
// [Extract] walks one or more document lists and collects every object that
// carries an @type, including nested ones, deduplicated by [canon.Key]. For
// every property whose value is, or recursively contains, a reference to an
// extracted node it emits a directed edge labeled with the property name.
// References to nodes outside the extracted set are dropped: cross-graph
// references to entities defined on other pages are expected.
//
// # Placement
//
// [Compute] places nodes row by row in extraction order on a grid with
// ceil(sqrt(n)) columns, capped at [MaxColumns]. The layout is deterministic;
// it is a debugging aid, not a force-directed drawing.
//
// # Diff Status
//
// When [Options.Diff] is set, nodes are tagged added, removed or changed by
// looking up their key in the diff, and edges take the status of their source
// node. Tags never affect positions.
package layout
