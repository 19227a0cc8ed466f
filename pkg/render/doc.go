// Package render turns graph layouts into viewable artifacts.
//
// # Overview
//
// The [nodelink] subpackage converts a grid [graph.Layout] into Graphviz DOT
// with pinned node positions and renders it to SVG. This package adds generic
// format conversion on top:
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg.
//
// [nodelink]: github.com/matzehuels/ldgraph/pkg/render/nodelink
// [graph.Layout]: github.com/matzehuels/ldgraph/pkg/graph.Layout
package render
