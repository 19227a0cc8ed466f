package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a single JSON-LD graph document.
type Document struct {
	Context string
	Graph   []*Node
}

// Assemble merges node lists into one document.
//
// Nodes are walked in argument order. For each @id only the first occurrence
// is kept; later full copies are dropped. Anonymous nodes are never
// deduplicated. Order is otherwise preserved, so identical inputs always
// assemble into byte-identical output.
func Assemble(lists ...[]*Node) Document {
	seen := make(map[string]bool)
	var out []*Node
	for _, list := range lists {
		for _, n := range list {
			if n == nil {
				continue
			}
			if n.ID != "" {
				if seen[n.ID] {
					continue
				}
				seen[n.ID] = true
			}
			out = append(out, n)
		}
	}
	return Document{Context: SchemaContext, Graph: out}
}

// Node returns the node with the given @id.
func (d Document) Node(id string) (*Node, bool) {
	for _, n := range d.Graph {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// IDs returns the @id of every identified node in document order.
func (d Document) IDs() []string {
	var ids []string
	for _, n := range d.Graph {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// MarshalJSON encodes {"@context": ..., "@graph": [...]}.
func (d Document) MarshalJSON() ([]byte, error) {
	ctx := d.Context
	if ctx == "" {
		ctx = SchemaContext
	}
	nodes := d.Graph
	if nodes == nil {
		nodes = []*Node{}
	}
	c, err := encode(ctx)
	if err != nil {
		return nil, err
	}
	g, err := encode(nodes)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"@context":`)
	buf.Write(c)
	buf.WriteString(`,"@graph":`)
	buf.Write(g)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either {"@graph": [...]} or a bare single node.
func (d *Document) UnmarshalJSON(data []byte) error {
	v, err := decodeValue(json.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	obj, ok := v.(*object)
	if !ok {
		return fmt.Errorf("document must be a JSON object")
	}

	out := Document{Context: SchemaContext}
	if ctx, ok := obj.get(KeyContext); ok {
		if s, ok := ctx.(string); ok {
			out.Context = s
		}
	}

	raw, ok := obj.get(KeyGraph)
	if !ok {
		bare := obj.toNode()
		bare.Attrs.Delete(KeyContext)
		out.Graph = []*Node{bare}
		*d = out
		return nil
	}

	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("@graph must be an array")
	}
	for i, e := range list {
		o, ok := e.(*object)
		if !ok {
			return fmt.Errorf("@graph[%d] is not an object", i)
		}
		out.Graph = append(out.Graph, o.toNode())
	}
	*d = out
	return nil
}
