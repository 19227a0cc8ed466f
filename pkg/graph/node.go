package graph

import "slices"

// SchemaContext is the @context emitted on every document.
const SchemaContext = "https://schema.org"

// Reserved JSON-LD keywords.
const (
	KeyContext = "@context"
	KeyGraph   = "@graph"
	KeyType    = "@type"
	KeyID      = "@id"
)

// Ref is a by-id pointer to a node. It is the only form one node may use to
// point at another node that carries an @id.
type Ref struct {
	ID string
}

// IsZero reports whether the reference points nowhere.
func (r Ref) IsZero() bool { return r.ID == "" }

// RefTo returns a reference to id.
func RefTo(id string) Ref { return Ref{ID: id} }

// Node is one typed, optionally identified entry in a structured-data graph.
//
// Attribute values are scalars (string, bool, numbers), [Ref], *Node for values
// that are never independently addressable (e.g. an inline hero image), or
// []any of those.
type Node struct {
	Type  string
	ID    string
	Attrs Attrs
}

// New creates a node of the given type and id. id may be empty for anonymous nodes.
func New(typ, id string) *Node {
	return &Node{Type: typ, ID: id}
}

// Ref returns a reference to n. Anonymous nodes return the zero Ref.
func (n *Node) Ref() Ref { return Ref{ID: n.ID} }

// Set stores an attribute and returns n for chaining.
//
// Empty values are skipped: nil, "", a zero Ref, a nil *Node and empty slices
// never reach the output. Absence is how the graph expresses "unknown".
func (n *Node) Set(key string, v any) *Node {
	if isEmpty(v) {
		return n
	}
	n.Attrs.Set(key, v)
	return n
}

// Get returns the attribute stored under key.
func (n *Node) Get(key string) (any, bool) { return n.Attrs.Get(key) }

// String returns the attribute under key if it is a string.
func (n *Node) String(key string) string {
	v, _ := n.Attrs.Get(key)
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy of n. Nested nodes and lists are copied; scalars
// and references are immutable and shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, ID: n.ID}
	for _, k := range n.Attrs.keys {
		out.Attrs.Set(k, cloneValue(n.Attrs.vals[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Node:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(x)
	default:
		return v
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case Ref:
		return x.IsZero()
	case *Node:
		return x == nil
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []Ref:
		return len(x) == 0
	}
	return false
}

// Attrs is an insertion-ordered attribute map.
// The zero value is an empty map ready to use.
type Attrs struct {
	keys []string
	vals map[string]any
}

// Set stores v under key. Re-setting an existing key keeps its original position.
func (a *Attrs) Set(key string, v any) {
	if a.vals == nil {
		a.vals = make(map[string]any)
	}
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = v
}

// Get returns the value stored under key.
func (a Attrs) Get(key string) (any, bool) {
	v, ok := a.vals[key]
	return v, ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (a *Attrs) Delete(key string) {
	if _, ok := a.vals[key]; !ok {
		return
	}
	delete(a.vals, key)
	a.keys = slices.DeleteFunc(a.keys, func(k string) bool { return k == key })
}

// Keys returns the attribute names in insertion order.
func (a Attrs) Keys() []string { return slices.Clone(a.keys) }

// Len returns the number of attributes.
func (a Attrs) Len() int { return len(a.keys) }
