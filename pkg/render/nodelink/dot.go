package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// DefaultEngine lays out DOT produced by ToDOT. neato honors pinned positions.
const DefaultEngine = "neato"

// pointsPerInch converts grid pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// Detailed adds the node type and key under the label.
	Detailed bool
}

type palette struct {
	fill, line string
	dashed     bool
}

var statusColors = map[string]palette{
	"":                  {fill: "white", line: "#444444"},
	graph.StatusAdded:   {fill: "#dcfce7", line: "#16a34a"},
	graph.StatusRemoved: {fill: "#fee2e2", line: "#dc2626", dashed: true},
	graph.StatusChanged: {fill: "#fef3c7", line: "#d97706"},
}

func colors(status string) palette {
	if p, ok := statusColors[status]; ok {
		return p
	}
	return statusColors[""]
}

// ToDOT converts a layout to Graphviz DOT with pinned node positions.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=9, color=\"#666666\", fontcolor=\"#666666\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.LayoutNode, opts Options) []string {
	label := n.Label
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s\n%s", n.Label, n.Type, n.ID)
	} else if n.Type != "" && n.Type != n.Label {
		label = n.Type + "\n" + n.Label
	}

	p := colors(n.Status)
	style := "rounded,filled"
	if p.dashed {
		style += ",dashed"
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=%q", fmt.Sprintf("%.2f,%.2f!", n.X/pointsPerInch, -n.Y/pointsPerInch)),
		fmt.Sprintf("style=%q", style),
		fmt.Sprintf("fillcolor=%q", p.fill),
		fmt.Sprintf("color=%q", p.line),
	}
}

func edgeAttrs(e graph.Edge) []string {
	attrs := []string{fmt.Sprintf("label=%q", e.Label)}
	if e.Status != "" {
		p := colors(e.Status)
		attrs = append(attrs, fmt.Sprintf("color=%q", p.line), fmt.Sprintf("fontcolor=%q", p.line))
		if p.dashed {
			attrs = append(attrs, "style=dashed")
		}
	}
	return attrs
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGWith(dot, DefaultEngine)
}

// RenderSVGWith renders DOT to SVG with the named Graphviz layout engine.
func RenderSVGWith(dot, engine string) ([]byte, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// ToNodelink converts a grid layout into a nodelink layout carrying its DOT.
func ToNodelink(l graph.Layout, opts Options) graph.Layout {
	out := l
	out.VizType = graph.VizTypeNodelink
	out.DOT = ToDOT(l, opts)
	out.Engine = DefaultEngine
	return out
}
