package diff

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/ldgraph/pkg/canon"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/graph"
)

func docs(t *testing.T, s string) []any {
	t.Helper()
	var v []any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func TestDocumentsChangedNode(t *testing.T) {
	left := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p","name":"A"}]}]`)
	right := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p","name":"B"}]}]`)

	r := Documents(left, right)
	if !reflect.DeepEqual(r.ChangedNodes, []string{"#p"}) {
		t.Errorf("changed = %v", r.ChangedNodes)
	}
	if len(r.AddedNodes) != 0 || len(r.RemovedNodes) != 0 {
		t.Errorf("added/removed = %v/%v", r.AddedNodes, r.RemovedNodes)
	}
	if len(r.AddedBlocks) != 1 || len(r.RemovedBlocks) != 1 {
		t.Errorf("blocks = +%v -%v", r.AddedBlocks, r.RemovedBlocks)
	}
	if r.Status != StatusOK || r.Empty() {
		t.Errorf("status = %q, empty = %v", r.Status, r.Empty())
	}
}

func TestDocumentsEmptyLeft(t *testing.T) {
	right := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p","name":"A"}]}]`)

	r := Documents(nil, right)
	if !reflect.DeepEqual(r.AddedBlocks, []string{canon.Fingerprint(right[0])}) {
		t.Errorf("added blocks = %v", r.AddedBlocks)
	}
	if !reflect.DeepEqual(r.AddedNodes, []string{"#p"}) {
		t.Errorf("added nodes = %v", r.AddedNodes)
	}
	if len(r.RemovedBlocks) != 0 || len(r.RemovedNodes) != 0 || len(r.ChangedNodes) != 0 {
		t.Errorf("unexpected differences: %+v", r)
	}
}

func TestDocumentsKeyOrderIrrelevant(t *testing.T) {
	left := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p","name":"A","jobTitle":"X"}]}]`)
	right := docs(t, `[{"@graph":[{"jobTitle":"X","name":"A","@id":"#p","@type":"Person"}]}]`)

	if r := Documents(left, right); !r.Empty() {
		t.Errorf("reordered keys reported as change: %s", r.Summary())
	}
}

func TestDocumentsArrayOrderMatters(t *testing.T) {
	left := docs(t, `[{"@type":"Person","@id":"#p","sameAs":["a","b"]}]`)
	right := docs(t, `[{"@type":"Person","@id":"#p","sameAs":["b","a"]}]`)

	if r := Documents(left, right); !reflect.DeepEqual(r.ChangedNodes, []string{"#p"}) {
		t.Errorf("changed = %v", r.ChangedNodes)
	}
}

func TestDocumentsAddedRemoved(t *testing.T) {
	left := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p"},{"@type":"Organization","@id":"#o"}]}]`)
	right := docs(t, `[{"@graph":[{"@type":"Person","@id":"#p"},{"@type":"WebSite","@id":"#w"},{"@type":"ImageObject","url":"u"}]}]`)

	r := Documents(left, right)
	if want := []string{"#w", "ImageObject||u"}; !reflect.DeepEqual(r.AddedNodes, want) {
		t.Errorf("added = %v, want %v", r.AddedNodes, want)
	}
	if want := []string{"#o"}; !reflect.DeepEqual(r.RemovedNodes, want) {
		t.Errorf("removed = %v, want %v", r.RemovedNodes, want)
	}
}

func TestDocumentsUnkeyedNodes(t *testing.T) {
	// An unkeyed node changes its document's fingerprint but never shows up
	// in the node lists.
	left := docs(t, `[{"@graph":[{"description":"x"}]}]`)
	right := docs(t, `[{"@graph":[{"description":"y"}]}]`)

	r := Documents(left, right)
	if len(r.AddedNodes)+len(r.RemovedNodes)+len(r.ChangedNodes) != 0 {
		t.Errorf("unkeyed nodes compared: %+v", r)
	}
	if len(r.AddedBlocks) != 1 || len(r.RemovedBlocks) != 1 {
		t.Errorf("blocks = +%v -%v", r.AddedBlocks, r.RemovedBlocks)
	}
}

func TestDocumentsDuplicateKeyFirstWins(t *testing.T) {
	left := docs(t, `[{"@type":"Person","@id":"#p","name":"A"},{"@type":"Person","@id":"#p","name":"Z"}]`)
	right := docs(t, `[{"@type":"Person","@id":"#p","name":"A"}]`)

	r := Documents(left, right)
	if len(r.ChangedNodes) != 0 {
		t.Errorf("changed = %v", r.ChangedNodes)
	}
}

func TestDocumentsBlockMoved(t *testing.T) {
	a := `{"@type":"Person","@id":"#p"}`
	b := `{"@type":"Organization","@id":"#o"}`
	left := docs(t, "["+a+","+b+"]")
	right := docs(t, "["+b+","+a+"]")

	if r := Documents(left, right); !r.Empty() {
		t.Errorf("reordered blocks reported: %s", r.Summary())
	}
}

func TestDocumentsBareAndGraphForm(t *testing.T) {
	bare := docs(t, `[{"@context":"https://schema.org","@type":"Person","@id":"#p","name":"A"}]`)
	wrapped := docs(t, `[{"@context":"https://schema.org","@graph":[{"@type":"Person","@id":"#p","name":"A"}]}]`)

	r := Documents(bare, wrapped)
	if len(r.ChangedNodes) != 0 || len(r.AddedNodes) != 0 || len(r.RemovedNodes) != 0 {
		t.Errorf("nodes: changed=%v added=%v removed=%v", r.ChangedNodes, r.AddedNodes, r.RemovedNodes)
	}
	// The documents themselves differ, so the block diff still reports them.
	if len(r.AddedBlocks) != 1 || len(r.RemovedBlocks) != 1 {
		t.Errorf("blocks = +%v -%v", r.AddedBlocks, r.RemovedBlocks)
	}
}

func TestFlattenDropsContext(t *testing.T) {
	input := docs(t, `[{"@context":"https://schema.org","@type":"Person","@id":"#p"}]`)

	nodes := Flatten(input)
	if len(nodes) != 1 {
		t.Fatalf("nodes = %v", nodes)
	}
	if _, ok := nodes[0]["@context"]; ok {
		t.Errorf("@context kept: %v", nodes[0])
	}
	if _, ok := input[0].(map[string]any)["@context"]; !ok {
		t.Error("input document was modified")
	}
}

func TestFlatten(t *testing.T) {
	input := docs(t, `[
		{"@context":"https://schema.org","@graph":[{"@type":"A"},"junk",{"@type":"B"}]},
		{"@type":"C"},
		{"@graph":{"@type":"D"}},
		"not a document"
	]`)
	nodes := Flatten(input)
	var types []string
	for _, n := range nodes {
		types = append(types, n["@type"].(string))
	}
	if want := []string{"A", "B", "C", "D"}; !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v, want %v", types, want)
	}
}

func bundle(t *testing.T, slots map[string]string) *capture.Bundle {
	t.Helper()
	b := capture.NewBundle(capture.Key{Target: "https://x.test/", Mode: capture.ModeLocal})
	for name, s := range slots {
		b.SetSlot(name, docs(t, s))
	}
	return b
}

func TestCompare(t *testing.T) {
	left := bundle(t, map[string]string{"server": `[{"@type":"Person","@id":"#p","name":"A"}]`})
	right := bundle(t, map[string]string{"server": `[{"@type":"Person","@id":"#p","name":"B"}]`, "dom": `[]`})

	tests := []struct {
		name       string
		left       *capture.Bundle
		right      *capture.Bundle
		slot       string
		wantStatus string
	}{
		{"OK", left, right, "server", StatusOK},
		{"NilLeft", nil, right, "server", StatusUnavailable},
		{"NilRight", left, nil, "server", StatusUnavailable},
		{"SlotMissingLeft", left, right, "dom", StatusUnavailable},
		{"SlotMissingBoth", left, right, "other", StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compare(tt.left, tt.right, tt.slot)
			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (%s)", r.Status, tt.wantStatus, r.Reason)
			}
			if r.Slot != tt.slot {
				t.Errorf("slot = %q", r.Slot)
			}
			if !r.Available() {
				if r.Empty() {
					t.Error("unavailable result must not read as empty")
				}
				if r.Reason == "" {
					t.Error("unavailable result needs a reason")
				}
				if len(r.ChangedNodes) != 0 {
					t.Error("unavailable result must not carry a partial diff")
				}
			}
		})
	}
}

func TestSlots(t *testing.T) {
	left := bundle(t, map[string]string{"server": `[]`, "dom": `[]`})
	right := bundle(t, map[string]string{"server": `[]`})

	results := Slots(left, right)
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Slot != "dom" || results[0].Available() {
		t.Errorf("dom = %+v", results[0])
	}
	if results[1].Slot != "server" || !results[1].Empty() {
		t.Errorf("server = %+v", results[1])
	}

	if got := Slots(nil, nil); len(got) != 1 || got[0].Available() {
		t.Errorf("Slots(nil, nil) = %+v", got)
	}
}

func TestNodeStatus(t *testing.T) {
	r := Result{
		Status:       StatusOK,
		AddedNodes:   []string{"a", "c"},
		RemovedNodes: []string{"b"},
		ChangedNodes: []string{"d"},
	}
	tests := map[string]string{
		"a": graph.StatusAdded,
		"c": graph.StatusAdded,
		"b": graph.StatusRemoved,
		"d": graph.StatusChanged,
		"e": "",
	}
	for key, want := range tests {
		if got := r.NodeStatus(key); got != want {
			t.Errorf("NodeStatus(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	if got := Unavailable("left capture missing").Summary(); got != "comparison unavailable: left capture missing" {
		t.Errorf("got %q", got)
	}
	if got := Documents(nil, nil).Summary(); got != "no changes" {
		t.Errorf("got %q", got)
	}
	r := Result{Status: StatusOK, AddedNodes: []string{"a"}, ChangedNodes: []string{"b", "c"}}
	if got := r.Summary(); got != "nodes +1 -0 ~2, blocks +0 -0" {
		t.Errorf("got %q", got)
	}
}

func TestResultJSONHasEmptyLists(t *testing.T) {
	data, err := json.Marshal(Documents(nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"status":"ok","added_blocks":[],"removed_blocks":[],"added_nodes":[],"removed_nodes":[],"changed_nodes":[]}`
	if string(data) != want {
		t.Errorf("got %s", data)
	}
}
