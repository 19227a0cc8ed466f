package diff

import (
	"fmt"
	"sort"

	"github.com/matzehuels/ldgraph/pkg/canon"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Result statuses.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// Result is the outcome of comparing two sides. All lists are sorted.
type Result struct {
	Slot          string   `json:"slot,omitempty"`
	Status        string   `json:"status"`
	Reason        string   `json:"reason,omitempty"`
	AddedBlocks   []string `json:"added_blocks"`
	RemovedBlocks []string `json:"removed_blocks"`
	AddedNodes    []string `json:"added_nodes"`
	RemovedNodes  []string `json:"removed_nodes"`
	ChangedNodes  []string `json:"changed_nodes"`
}

// Unavailable returns a result marking the comparison as impossible.
func Unavailable(format string, args ...any) Result {
	r := emptyResult()
	r.Status = StatusUnavailable
	r.Reason = fmt.Sprintf(format, args...)
	return r
}

func emptyResult() Result {
	return Result{
		Status:        StatusOK,
		AddedBlocks:   []string{},
		RemovedBlocks: []string{},
		AddedNodes:    []string{},
		RemovedNodes:  []string{},
		ChangedNodes:  []string{},
	}
}

// Available reports whether the comparison ran.
func (r Result) Available() bool { return r.Status == StatusOK }

// Empty reports whether the comparison ran and found no differences.
func (r Result) Empty() bool {
	return r.Available() &&
		len(r.AddedBlocks) == 0 && len(r.RemovedBlocks) == 0 &&
		len(r.AddedNodes) == 0 && len(r.RemovedNodes) == 0 && len(r.ChangedNodes) == 0
}

// Summary renders a one-line description.
func (r Result) Summary() string {
	if !r.Available() {
		return "comparison unavailable: " + r.Reason
	}
	if r.Empty() {
		return "no changes"
	}
	return fmt.Sprintf("nodes +%d -%d ~%d, blocks +%d -%d",
		len(r.AddedNodes), len(r.RemovedNodes), len(r.ChangedNodes),
		len(r.AddedBlocks), len(r.RemovedBlocks))
}

// NodeStatus returns the diff status of a node key: graph.StatusAdded,
// graph.StatusRemoved, graph.StatusChanged, or "" when unchanged.
func (r Result) NodeStatus(key string) string {
	switch {
	case contains(r.AddedNodes, key):
		return graph.StatusAdded
	case contains(r.RemovedNodes, key):
		return graph.StatusRemoved
	case contains(r.ChangedNodes, key):
		return graph.StatusChanged
	}
	return ""
}

func contains(sorted []string, s string) bool {
	i := sort.SearchStrings(sorted, s)
	return i < len(sorted) && sorted[i] == s
}

// =============================================================================
// Comparison
// =============================================================================

// Compare diffs one slot of two bundles. A nil bundle or a missing slot on
// either side yields an unavailable result.
func Compare(left, right *capture.Bundle, slot string) Result {
	var r Result
	switch {
	case left == nil:
		r = Unavailable("left capture missing")
	case right == nil:
		r = Unavailable("right capture missing")
	default:
		l, lok := left.Slot(slot)
		rr, rok := right.Slot(slot)
		switch {
		case !lok:
			r = Unavailable("slot %q missing from left capture", slot)
		case !rok:
			r = Unavailable("slot %q missing from right capture", slot)
		default:
			r = Documents(l, rr)
		}
	}
	r.Slot = slot
	return r
}

// Slots compares every slot present in either bundle, in sorted slot order.
// A slot present on only one side yields an unavailable result for it.
func Slots(left, right *capture.Bundle) []Result {
	seen := make(map[string]bool)
	var names []string
	for _, b := range []*capture.Bundle{left, right} {
		for _, name := range b.SlotNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return []Result{Compare(left, right, "")}
	}

	out := make([]Result, len(names))
	for i, name := range names {
		out[i] = Compare(left, right, name)
	}
	return out
}

// Documents diffs two document lists.
func Documents(left, right []any) Result {
	r := emptyResult()

	lb, rb := fingerprints(left), fingerprints(right)
	r.AddedBlocks = minus(rb, lb)
	r.RemovedBlocks = minus(lb, rb)

	ln, rn := index(Flatten(left)), index(Flatten(right))
	r.AddedNodes = minus(rn, ln)
	r.RemovedNodes = minus(ln, rn)
	for key, lc := range ln {
		if rc, ok := rn[key]; ok && rc != lc {
			r.ChangedNodes = append(r.ChangedNodes, key)
		}
	}
	sort.Strings(r.ChangedNodes)
	return r
}

// Flatten turns documents into one node list. A document with an @graph
// array contributes its object members; any other object is a bare node.
func Flatten(docs []any) []map[string]any {
	var out []map[string]any
	for _, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		g, hasGraph := doc[graph.KeyGraph]
		if !hasGraph {
			out = append(out, withoutContext(doc))
			continue
		}
		switch x := g.(type) {
		case []any:
			for _, e := range x {
				if n, ok := e.(map[string]any); ok {
					out = append(out, n)
				}
			}
		case map[string]any:
			out = append(out, x)
		}
	}
	return out
}

// withoutContext returns node minus its @context, so a bare document and the
// same node inside @graph compare equal.
func withoutContext(node map[string]any) map[string]any {
	if _, ok := node[graph.KeyContext]; !ok {
		return node
	}
	out := make(map[string]any, len(node)-1)
	for k, v := range node {
		if k != graph.KeyContext {
			out[k] = v
		}
	}
	return out
}

// fingerprints returns the set of document fingerprints.
func fingerprints(docs []any) map[string]string {
	set := make(map[string]string, len(docs))
	for _, d := range docs {
		fp := canon.Fingerprint(d)
		set[fp] = fp
	}
	return set
}

// index maps node keys to canonical strings. Unkeyed nodes are skipped; for
// duplicate keys the first node wins.
func index(nodes []map[string]any) map[string]string {
	idx := make(map[string]string, len(nodes))
	for _, n := range nodes {
		key := canon.Key(n)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = canon.String(n)
	}
	return idx
}

// minus returns the sorted keys of a that are not in b.
func minus(a, b map[string]string) []string {
	out := []string{}
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
