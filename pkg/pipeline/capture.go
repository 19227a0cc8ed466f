package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/observability"
)

// Capture returns the bundle for a request, from the cache when possible.
// The second result reports a cache hit.
func (r *Runner) Capture(ctx context.Context, opts CaptureOptions) (*capture.Bundle, bool, error) {
	if err := opts.ValidateForCapture(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.CaptureKey(opts.Target, opts.Mode, opts.Inject)

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, "capture", key); hit {
			b, err := capture.ParseBundle(data)
			if err == nil {
				r.Logger.Debug("capture cache hit", "key", opts.Key().String(), "id", b.ID)
				return b, true, nil
			}
			r.Logger.Warn("discarding unreadable cached bundle", "err", err)
		}
	}

	start := time.Now()
	observability.Pipeline().OnCaptureStart(ctx, opts.Target, opts.Mode)
	b, err := r.Capturer.Capture(ctx, opts.Request)
	observability.Pipeline().OnCaptureComplete(ctx, opts.Target, opts.Mode, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("capture %s: %w", opts.Target, err)
	}
	for _, w := range b.Warnings {
		r.Logger.Warn(w, "target", opts.Target)
	}

	if data, err := b.Marshal(); err == nil {
		r.cacheSet(ctx, "capture", key, data, cache.TTLCapture)
	}
	return b, false, nil
}

// Compare diffs one slot of two bundles. An empty slot means DefaultSlot.
func (r *Runner) Compare(ctx context.Context, left, right *capture.Bundle, slot string) diff.Result {
	if slot == "" {
		slot = DefaultSlot
	}
	res := diff.Compare(left, right, slot)
	r.reportDiff(ctx, res)
	return res
}

// CompareAll diffs every slot present in either bundle.
func (r *Runner) CompareAll(ctx context.Context, left, right *capture.Bundle) []diff.Result {
	results := diff.Slots(left, right)
	for _, res := range results {
		r.reportDiff(ctx, res)
	}
	return results
}

func (r *Runner) reportDiff(ctx context.Context, res diff.Result) {
	changes := len(res.AddedNodes) + len(res.RemovedNodes) + len(res.ChangedNodes)
	observability.Pipeline().OnDiffComplete(ctx, res.Slot, res.Status, changes)
	if !res.Available() {
		r.Logger.Warn("comparison unavailable", "slot", res.Slot, "reason", res.Reason)
		return
	}
	r.Logger.Debug("compared captures", "slot", res.Slot, "summary", res.Summary())
}
