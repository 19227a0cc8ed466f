package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/errors"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/layout"
	"github.com/matzehuels/ldgraph/pkg/observability"
	"github.com/matzehuels/ldgraph/pkg/render/nodelink"
)

// Layout lays out one slot of a capture. When right is non-nil the layout
// covers both captures and carries the diff status of every node; the diff
// is returned alongside. Otherwise the returned diff is nil.
func (r *Runner) Layout(ctx context.Context, left, right *capture.Bundle, opts LayoutOptions) (graph.Layout, *diff.Result, error) {
	l, res, _, err := r.LayoutWithCacheInfo(ctx, left, right, opts)
	return l, res, err
}

// LayoutWithCacheInfo is Layout that also reports a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, left, right *capture.Bundle, opts LayoutOptions) (graph.Layout, *diff.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, nil, false, err
	}
	if left == nil {
		return graph.Layout{}, nil, false, errors.New(errors.ErrCodeInvalidInput, "layout needs at least one capture")
	}

	docs, ok := left.Slot(opts.Slot)
	if right == nil {
		if !ok {
			return graph.Layout{}, nil, false, errors.New(errors.ErrCodeNotFound, "slot %q missing from capture", opts.Slot)
		}
		l, hit, err := r.LayoutDocumentsWithCacheInfo(ctx, docs, nil, opts)
		return l, nil, hit, err
	}

	res := r.Compare(ctx, left, right, opts.Slot)
	rdocs, _ := right.Slot(opts.Slot)
	// Current documents first, so changed nodes carry their new labels and
	// removed nodes trail.
	union := append(append([]any{}, rdocs...), docs...)
	l, hit, err := r.LayoutDocumentsWithCacheInfo(ctx, union, &res, opts)
	return l, &res, hit, err
}

// LayoutDocuments lays out decoded documents, tagging nodes with the status
// from d when it is available.
func (r *Runner) LayoutDocuments(ctx context.Context, docs []any, d *diff.Result, opts LayoutOptions) (graph.Layout, error) {
	l, _, err := r.LayoutDocumentsWithCacheInfo(ctx, docs, d, opts)
	return l, err
}

// LayoutDocumentsWithCacheInfo is LayoutDocuments that also reports a cache hit.
func (r *Runner) LayoutDocumentsWithCacheInfo(ctx context.Context, docs []any, d *diff.Result, opts LayoutOptions) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	keyOpts := cache.LayoutKeyOpts{
		VizType:    opts.VizType,
		Slot:       opts.Slot,
		MaxColumns: opts.MaxColumns,
		CellWidth:  opts.CellWidth,
		CellHeight: opts.CellHeight,
		Detailed:   opts.Detailed,
	}
	if d != nil && d.Available() {
		keyOpts.DiffHash = cache.HashJSON(d)
	}
	key := r.Keyer.LayoutKey(cache.HashJSON(docs), keyOpts)

	if data, hit := r.cacheGet(ctx, "layout", key); hit {
		if l, err := graph.UnmarshalLayout(data); err == nil {
			return l, true, nil
		}
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, len(docs))
	l := layout.Compute(docs, layout.Options{
		Diff:       d,
		MaxColumns: opts.MaxColumns,
		CellWidth:  opts.CellWidth,
		CellHeight: opts.CellHeight,
	})
	if opts.VizType == graph.VizTypeNodelink {
		l = nodelink.ToNodelink(l, nodelink.Options{Detailed: opts.Detailed})
	}
	observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, time.Since(start), nil)
	r.Logger.Debug("computed layout", "viz", l.VizType, "nodes", len(l.Nodes), "edges", len(l.Edges))

	if data, err := graph.MarshalLayout(l); err == nil {
		r.cacheSet(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, false, nil
}
