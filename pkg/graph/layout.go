package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Visualization types.
const (
	VizTypeGrid     = "grid"
	VizTypeNodelink = "nodelink"
)

// Diff status tags carried by layout nodes and edges.
// The empty string means unchanged (or no diff supplied).
const (
	StatusAdded   = "added"
	StatusRemoved = "removed"
	StatusChanged = "changed"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for graph visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Grid ("grid"):
//	  - Nodes carry X/Y positions on a fixed-column grid
//	  - Columns, CellWidth, CellHeight: grid geometry
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering (positions pinned from the grid)
//	  - Engine: Graphviz layout engine
//
// Shared fields (both types):
//   - Width, Height: frame dimensions
//   - Nodes, Edges: extracted graph structure with diff status tags
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type"`

	// Common dimensions
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Graph structure (shared)
	Nodes []LayoutNode `json:"nodes,omitempty"`
	Edges []Edge       `json:"edges,omitempty"`

	// Grid-specific
	Columns    int     `json:"columns,omitempty"`
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsGrid returns true if this is a grid layout.
func (l *Layout) IsGrid() bool { return l.VizType == VizTypeGrid }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// LayoutNode is a positioned graph node.
// ID is the node's comparison key: its @id, or a structural key for anonymous nodes.
type LayoutNode struct {
	ID     string  `json:"id"`
	Type   string  `json:"type,omitempty"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Status string  `json:"status,omitempty"`
}

// Edge is a directed reference from one node to another. Label is the
// property that holds the reference (e.g. "publisher").
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Status string `json:"status,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeGrid
	}

	switch {
	case l.IsGrid():
		if l.Columns <= 0 && len(l.Nodes) > 0 {
			return Layout{}, fmt.Errorf("grid layout must declare columns")
		}
	case l.IsNodelink():
		if l.DOT == "" {
			return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return Layout{}, fmt.Errorf("unknown viz_type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
