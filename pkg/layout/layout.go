package layout

import (
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/matzehuels/ldgraph/pkg/canon"
	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Grid defaults.
const (
	MaxColumns        = 4
	DefaultCellWidth  = 240.0
	DefaultCellHeight = 120.0
)

// Options configures Compute.
type Options struct {
	// Diff tags nodes and edges with change status. Unavailable results are
	// ignored.
	Diff *diff.Result
	// MaxColumns caps the grid width. Zero uses MaxColumns.
	MaxColumns int
	// CellWidth and CellHeight size one grid cell. Zero uses the defaults.
	CellWidth  float64
	CellHeight float64
}

func (o Options) withDefaults() Options {
	if o.MaxColumns <= 0 {
		o.MaxColumns = MaxColumns
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	return o
}

// Columns returns the grid width for n nodes.
func Columns(n, max int) int {
	if n <= 0 {
		return 0
	}
	c := int(math.Ceil(math.Sqrt(float64(n))))
	if max > 0 && c > max {
		c = max
	}
	return c
}

// Compute extracts nodes and edges from docs and places them on a grid.
func Compute(docs []any, opts Options) graph.Layout {
	opts = opts.withDefaults()
	nodes, edges := Extract(docs)

	cols := Columns(len(nodes), opts.MaxColumns)
	rows := 0
	if cols > 0 {
		rows = (len(nodes) + cols - 1) / cols
	}

	for i := range nodes {
		col, row := i%cols, i/cols
		nodes[i].X = float64(col)*opts.CellWidth + opts.CellWidth/2
		nodes[i].Y = float64(row)*opts.CellHeight + opts.CellHeight/2
	}

	if d := opts.Diff; d != nil && d.Available() {
		status := make(map[string]string, len(nodes))
		for i := range nodes {
			nodes[i].Status = d.NodeStatus(nodes[i].ID)
			status[nodes[i].ID] = nodes[i].Status
		}
		for i := range edges {
			edges[i].Status = status[edges[i].From]
		}
	}

	return graph.Layout{
		VizType:    graph.VizTypeGrid,
		Width:      float64(cols) * opts.CellWidth,
		Height:     float64(rows) * opts.CellHeight,
		Nodes:      nodes,
		Edges:      edges,
		Columns:    cols,
		CellWidth:  opts.CellWidth,
		CellHeight: opts.CellHeight,
	}
}

// =============================================================================
// Extraction
// =============================================================================

// Extract collects typed nodes and the references between them from one or
// more document lists. Nodes are returned in first-seen order without
// positions.
func Extract(docs ...[]any) ([]graph.LayoutNode, []graph.Edge) {
	x := &extractor{
		index:   make(map[string]bool),
		visited: make(map[uintptr]bool),
	}
	for _, list := range docs {
		for _, d := range list {
			x.collect(d)
		}
	}

	var edges []graph.Edge
	seen := make(map[graph.Edge]bool)
	for _, s := range x.sources {
		for _, prop := range sortedKeys(s.obj) {
			if strings.HasPrefix(prop, "@") {
				continue
			}
			for _, to := range x.targets(s.obj[prop], nil) {
				e := graph.Edge{From: s.key, To: to, Label: prop}
				if to == s.key || seen[e] {
					continue
				}
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return x.nodes, edges
}

type source struct {
	key string
	obj map[string]any
}

type extractor struct {
	nodes   []graph.LayoutNode
	sources []source
	index   map[string]bool
	visited map[uintptr]bool
}

// collect walks v depth-first, recording typed objects.
func (x *extractor) collect(v any) {
	switch val := v.(type) {
	case map[string]any:
		p := reflect.ValueOf(val).Pointer()
		if x.visited[p] {
			return
		}
		x.visited[p] = true

		if isTyped(val) {
			if key := canon.Key(val); key != "" && !x.index[key] {
				x.index[key] = true
				x.nodes = append(x.nodes, graph.LayoutNode{
					ID:    key,
					Type:  typeName(val),
					Label: label(val, key),
				})
				x.sources = append(x.sources, source{key: key, obj: val})
			}
		}
		for _, k := range sortedKeys(val) {
			x.collect(val[k])
		}
	case []any:
		for _, e := range val {
			x.collect(e)
		}
	}
}

// targets returns the extracted keys v points at: references, and nested
// typed objects, which are nodes of their own. Other objects are searched
// recursively.
func (x *extractor) targets(v any, stack map[uintptr]bool) []string {
	switch val := v.(type) {
	case map[string]any:
		if key := canon.Key(val); key != "" && x.index[key] && (isTyped(val) || isRef(val)) {
			return []string{key}
		}
		p := reflect.ValueOf(val).Pointer()
		if stack == nil {
			stack = make(map[uintptr]bool)
		}
		if stack[p] {
			return nil
		}
		stack[p] = true
		defer delete(stack, p)

		var out []string
		for _, k := range sortedKeys(val) {
			out = append(out, x.targets(val[k], stack)...)
		}
		return out
	case []any:
		var out []string
		for _, e := range val {
			out = append(out, x.targets(e, stack)...)
		}
		return out
	}
	return nil
}

func isTyped(m map[string]any) bool {
	switch t := m[graph.KeyType].(type) {
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return false
}

func isRef(m map[string]any) bool {
	id, ok := m[graph.KeyID].(string)
	return ok && id != ""
}

func typeName(m map[string]any) string {
	switch t := m[graph.KeyType].(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// label picks a human-readable caption for a node.
func label(m map[string]any, key string) string {
	for _, k := range []string{"name", "headline", "title", "caption"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	if id, ok := m[graph.KeyID].(string); ok && id != "" {
		if i := strings.LastIndex(id, "#"); i >= 0 && i < len(id)-1 {
			return id[i:]
		}
		return id
	}
	if t := typeName(m); t != "" {
		return t
	}
	return key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
