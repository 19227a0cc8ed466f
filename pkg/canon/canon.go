package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Circular replaces a value that refers back to one of its ancestors.
const Circular = "[Circular]"

// String returns the canonical form of v.
//
// v may be decoded JSON (map[string]any, []any, scalars, json.Number), a
// graph.Node, *graph.Node, graph.Ref or graph.Document. Any other value is
// routed through encoding/json first.
func String(v any) string {
	w := &writer{stack: make(map[uintptr]bool)}
	w.value(v)
	return w.buf.String()
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b any) bool {
	return String(a) == String(b)
}

// Fingerprint returns the canonical string of a whole document.
func Fingerprint(doc any) string {
	return String(doc)
}

// Hash returns the hex-encoded SHA-256 digest of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Short returns the first 12 hex characters of Hash(s), for display.
func Short(s string) string {
	return Hash(s)[:12]
}

type writer struct {
	buf   bytes.Buffer
	stack map[uintptr]bool
}

// enter marks a container as an ancestor of the values being written. It
// returns false when the container is already on the stack.
func (w *writer) enter(p uintptr) bool {
	if p == 0 {
		return true
	}
	if w.stack[p] {
		return false
	}
	w.stack[p] = true
	return true
}

func (w *writer) leave(p uintptr) {
	delete(w.stack, p)
}

func (w *writer) value(v any) {
	switch x := v.(type) {
	case nil:
		w.buf.WriteString("null")
	case string, bool, json.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		w.scalar(x)
	case map[string]any:
		p := reflect.ValueOf(x).Pointer()
		if !w.enter(p) {
			w.scalar(Circular)
			return
		}
		defer w.leave(p)
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.object(keys, func(k string) any { return x[k] })
	case []any:
		p := slicePointer(x)
		if !w.enter(p) {
			w.scalar(Circular)
			return
		}
		defer w.leave(p)
		w.buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.value(e)
		}
		w.buf.WriteByte(']')
	case []string:
		w.buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.scalar(e)
		}
		w.buf.WriteByte(']')
	case graph.Ref:
		w.object([]string{graph.KeyID}, func(string) any { return x.ID })
	case graph.Node:
		w.node(&x)
	case *graph.Node:
		if x == nil {
			w.buf.WriteString("null")
			return
		}
		w.node(x)
	case graph.Document:
		graphList := make([]any, len(x.Graph))
		for i, n := range x.Graph {
			graphList[i] = n
		}
		ctx := x.Context
		if ctx == "" {
			ctx = graph.SchemaContext
		}
		w.value(map[string]any{graph.KeyContext: ctx, graph.KeyGraph: graphList})
	default:
		w.foreign(v)
	}
}

func (w *writer) node(n *graph.Node) {
	p := reflect.ValueOf(n).Pointer()
	if !w.enter(p) {
		w.scalar(Circular)
		return
	}
	defer w.leave(p)

	vals := make(map[string]any, n.Attrs.Len()+2)
	for _, k := range n.Attrs.Keys() {
		vals[k], _ = n.Attrs.Get(k)
	}
	if n.Type != "" {
		vals[graph.KeyType] = n.Type
	}
	if n.ID != "" {
		vals[graph.KeyID] = n.ID
	}
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.object(keys, func(k string) any { return vals[k] })
}

func (w *writer) object(keys []string, get func(string) any) {
	w.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.scalar(k)
		w.buf.WriteByte(':')
		w.value(get(k))
	}
	w.buf.WriteByte('}')
}

func (w *writer) scalar(v any) {
	data, err := encode(v)
	if err != nil {
		w.buf.WriteString("null")
		return
	}
	w.buf.Write(data)
}

// foreign canonicalizes a value of a type the writer does not know by
// round-tripping it through encoding/json.
func (w *writer) foreign(v any) {
	data, err := encode(v)
	if err != nil {
		w.buf.WriteString("null")
		return
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		w.buf.WriteString("null")
		return
	}
	w.value(generic)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func slicePointer(s []any) uintptr {
	if cap(s) == 0 {
		return 0
	}
	return reflect.ValueOf(s).Pointer()
}

// =============================================================================
// Comparison Keys
// =============================================================================

// Property names consulted for the structural key of anonymous nodes, in
// preference order.
var (
	nameKeys = []string{"name", "headline", "title"}
	urlKeys  = []string{"url", "contentUrl", "item"}
)

// Key returns the comparison key of a decoded node object.
//
// The key is the node's @id when present; a plain "id" property is data, not
// identity. Otherwise it is the structural key "<type>|<name>|<url>", where
// name is the first of name, headline or title and url the first of url,
// contentUrl or item. Key returns "" when the node has no @id, no type, no
// name and no url; such nodes cannot be matched across graphs.
func Key(node map[string]any) string {
	if node == nil {
		return ""
	}
	if s, ok := node[graph.KeyID].(string); ok && s != "" {
		return s
	}

	typ := typeOf(node[graph.KeyType])
	if typ == "" {
		typ = typeOf(node["type"])
	}
	name := firstString(node, nameKeys)
	url := firstString(node, urlKeys)
	if typ == "" && name == "" && url == "" {
		return ""
	}
	return typ + "|" + name + "|" + url
}

// NodeKey returns the comparison key of a graph node.
func NodeKey(n *graph.Node) string {
	if n == nil {
		return ""
	}
	m := make(map[string]any, n.Attrs.Len()+2)
	for _, k := range n.Attrs.Keys() {
		m[k], _ = n.Attrs.Get(k)
	}
	if n.Type != "" {
		m[graph.KeyType] = n.Type
	}
	if n.ID != "" {
		m[graph.KeyID] = n.ID
	}
	return Key(m)
}

// typeOf renders @type as a string. Multi-typed nodes join their types with
// commas in declaration order.
func typeOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		var parts []string
		for _, e := range x {
			if s, ok := e.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	}
	return ""
}

func firstString(node map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := node[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
