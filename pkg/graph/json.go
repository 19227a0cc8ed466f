package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the reference as {"@id": "..."}.
func (r Ref) MarshalJSON() ([]byte, error) {
	id, err := encode(r.ID)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(`{"@id":`), id...), '}'), nil
}

// UnmarshalJSON decodes {"@id": "..."}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID string `json:"@id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	return nil
}

// MarshalJSON encodes the node as a JSON-LD object: @type, @id, then the
// attributes in insertion order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(k string, v any) error {
		key, err := encode(k)
		if err != nil {
			return err
		}
		val, err := encode(v)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", k, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	if n.Type != "" {
		if err := write(KeyType, n.Type); err != nil {
			return nil, err
		}
	}
	if n.ID != "" {
		if err := write(KeyID, n.ID); err != nil {
			return nil, err
		}
	}
	for _, k := range n.Attrs.keys {
		if err := write(k, n.Attrs.vals[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON-LD object, preserving attribute order.
func (n *Node) UnmarshalJSON(data []byte) error {
	v, err := decodeValue(json.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	obj, ok := v.(*object)
	if !ok {
		return fmt.Errorf("node must be a JSON object")
	}
	*n = *obj.toNode()
	return nil
}

// encode marshals v without HTML escaping so URLs survive byte-for-byte.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// =============================================================================
// Ordered Decoding
// =============================================================================

// object is a decoded JSON object that remembers key order.
type object struct {
	keys []string
	vals map[string]any
}

func (o *object) get(k string) (any, bool) {
	v, ok := o.vals[k]
	return v, ok
}

// decodeValue reads one JSON value from dec. Objects become *object, arrays
// []any, numbers json.Number.
func decodeValue(dec *json.Decoder) (any, error) {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &object{vals: make(map[string]any)}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.vals[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.vals[key] = v
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// toValue converts decoded JSON into attribute values: {"@id"} alone becomes a
// Ref, any other object a *Node.
func toValue(v any) any {
	switch x := v.(type) {
	case *object:
		if len(x.keys) == 1 && x.keys[0] == KeyID {
			if id, ok := x.vals[KeyID].(string); ok {
				return Ref{ID: id}
			}
		}
		return x.toNode()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = toValue(e)
		}
		return out
	default:
		return v
	}
}

// toNode converts the object into a node. Non-string @type/@id values (e.g.
// multi-typed nodes) are kept verbatim as attributes.
func (o *object) toNode() *Node {
	n := &Node{}
	for _, k := range o.keys {
		v := o.vals[k]
		switch k {
		case KeyType:
			if s, ok := v.(string); ok {
				n.Type = s
				continue
			}
		case KeyID:
			if s, ok := v.(string); ok {
				n.ID = s
				continue
			}
		}
		n.Attrs.Set(k, toValue(v))
	}
	return n
}
