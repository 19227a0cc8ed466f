// Package nodelink renders grid layouts as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a grid [graph.Layout] into Graphviz DOT. Node positions
// from the grid are pinned with pos="x,y!" so Graphviz only routes edges and
// never moves nodes; [RenderSVG] lays the DOT out with neato and returns SVG.
//
//	l := layout.Compute(docs, layout.Options{Diff: &result})
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Diff Colors
//
// Nodes and edges tagged by a diff are colored: added green, removed red,
// changed amber. Removed elements are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
