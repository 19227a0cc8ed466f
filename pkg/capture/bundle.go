package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Well-known slot names.
const (
	SlotDOM    = "dom"
	SlotServer = "server"
)

// Render modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Key identifies a capture by what was rendered and how. Captures are
// cached under this composite key.
type Key struct {
	Target string `json:"target"`
	Mode   string `json:"mode"`
	Inject bool   `json:"inject"`
}

// String renders the key as target|mode|inject.
func (k Key) String() string {
	return k.Target + "|" + k.Mode + "|" + strconv.FormatBool(k.Inject)
}

// Bundle is one captured snapshot.
//
// Each slot is an ordered list of documents; a document is decoded JSON, either
// {"@graph": [...]} or a single node object. Consumers only read bundles.
type Bundle struct {
	ID         string              `json:"id"`
	Target     string              `json:"target"`
	Mode       string              `json:"mode"`
	Inject     bool                `json:"inject"`
	CapturedAt time.Time           `json:"captured_at"`
	Slots      map[string][]any    `json:"slots"`
	Logs       map[string][]string `json:"logs,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// NewBundle creates an empty bundle with a fresh id and capture time.
func NewBundle(k Key) *Bundle {
	return &Bundle{
		ID:         uuid.NewString(),
		Target:     k.Target,
		Mode:       k.Mode,
		Inject:     k.Inject,
		CapturedAt: time.Now().UTC(),
		Slots:      make(map[string][]any),
	}
}

// Key returns the bundle's cache key.
func (b *Bundle) Key() Key {
	return Key{Target: b.Target, Mode: b.Mode, Inject: b.Inject}
}

// Slot returns the documents of a slot. The boolean is false when the bundle
// is nil or has no such slot.
func (b *Bundle) Slot(name string) ([]any, bool) {
	if b == nil {
		return nil, false
	}
	docs, ok := b.Slots[name]
	return docs, ok
}

// SetSlot stores docs under name.
func (b *Bundle) SetSlot(name string, docs []any) {
	if b.Slots == nil {
		b.Slots = make(map[string][]any)
	}
	if docs == nil {
		docs = []any{}
	}
	b.Slots[name] = docs
}

// SlotNames returns the slot names in sorted order.
func (b *Bundle) SlotNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.Slots))
	for name := range b.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Log appends a line to the named log.
func (b *Bundle) Log(name, line string) {
	if b.Logs == nil {
		b.Logs = make(map[string][]string)
	}
	b.Logs[name] = append(b.Logs[name], line)
}

// Warn records a non-fatal problem with the capture.
func (b *Bundle) Warn(format string, args ...any) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}

// Marshal encodes the bundle as indented JSON.
func (b *Bundle) Marshal() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// =============================================================================
// Tolerant Parsing
// =============================================================================

// metaFields are top-level bundle fields that are never slots.
var metaFields = map[string]bool{
	"id":          true,
	"target":      true,
	"mode":        true,
	"inject":      true,
	"captured_at": true,
	"slots":       true,
	"logs":        true,
	"warnings":    true,
}

// ParseBundle decodes a bundle payload.
//
// Only a payload that is not a JSON object is an error. A slot that is not an
// array or object becomes an empty slot with a warning, as do non-object
// entries inside a slot. Payloads without a "slots" object are read in the
// collaborator's raw form, where slots are top-level keys next to the
// metadata.
func ParseBundle(data []byte) (*Bundle, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if top == nil {
		return nil, fmt.Errorf("parse bundle: payload is null")
	}

	b := &Bundle{Slots: make(map[string][]any)}
	readField(b, top, "id", &b.ID)
	readField(b, top, "target", &b.Target)
	readField(b, top, "mode", &b.Mode)
	readField(b, top, "inject", &b.Inject)
	readField(b, top, "captured_at", &b.CapturedAt)
	readField(b, top, "warnings", &b.Warnings)
	readLogs(b, top["logs"])

	if raw, ok := top["slots"]; ok {
		var slots map[string]json.RawMessage
		if err := json.Unmarshal(raw, &slots); err != nil || slots == nil {
			b.Warn("slots: not an object")
		}
		for _, name := range sortedKeys(slots) {
			b.SetSlot(name, parseSlot(b, name, slots[name]))
		}
		return b, nil
	}

	for _, name := range sortedKeys(top) {
		if metaFields[name] {
			continue
		}
		b.SetSlot(name, parseSlot(b, name, top[name]))
	}
	return b, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func readField(b *Bundle, top map[string]json.RawMessage, key string, dst any) {
	raw, ok := top[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		b.Warn("%s: %v", key, err)
	}
}

// readLogs accepts {name: [lines]} and skips non-string lines.
func readLogs(b *Bundle, raw json.RawMessage) {
	if raw == nil {
		return
	}
	var logs map[string][]any
	if err := json.Unmarshal(raw, &logs); err != nil {
		b.Warn("logs: %v", err)
		return
	}
	for name, lines := range logs {
		for _, l := range lines {
			switch s := l.(type) {
			case string:
				b.Log(name, s)
			default:
				data, _ := json.Marshal(s)
				b.Log(name, string(data))
			}
		}
	}
}

// parseSlot decodes one slot into a document list. A single object is a
// one-document slot.
func parseSlot(b *Bundle, name string, raw json.RawMessage) []any {
	v, err := decode(raw)
	if err != nil {
		b.Warn("slot %s: %v", name, err)
		return []any{}
	}
	switch x := v.(type) {
	case map[string]any:
		return []any{x}
	case []any:
		docs := make([]any, 0, len(x))
		for i, d := range x {
			if _, ok := d.(map[string]any); !ok {
				b.Warn("slot %s: document %d is not an object", name, i)
				continue
			}
			docs = append(docs, d)
		}
		return docs
	case nil:
		return []any{}
	}
	b.Warn("slot %s: expected array or object", name)
	return []any{}
}

// decode reads one JSON value keeping numbers as json.Number.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
