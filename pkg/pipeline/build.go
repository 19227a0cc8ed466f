package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/observability"
	"github.com/matzehuels/ldgraph/pkg/schema"
)

// BuildOptions configures Runner.Build.
type BuildOptions struct {
	Config schema.Config       `json:"config"`
	Page   schema.PageSummary  `json:"page"`
	Lookup schema.MediaLookup  `json:"-"`
	Extra  []schema.BuildOption `json:"-"`
}

// cacheable reports whether the output is fully determined by Config and
// Page. A custom lookup or build option makes it opaque to the key.
func (o BuildOptions) cacheable() bool {
	return o.Lookup == nil && len(o.Extra) == 0
}

// Build produces the JSON-LD document for one page.
func (r *Runner) Build(ctx context.Context, opts BuildOptions) (graph.Document, error) {
	doc, _, err := r.BuildWithCacheInfo(ctx, opts)
	return doc, err
}

// BuildWithCacheInfo is Build that also reports whether the document came
// from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts BuildOptions) (graph.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return graph.Document{}, false, err
	}
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Page.URL)

	var key string
	if opts.cacheable() {
		key = r.Keyer.GraphKey(cache.HashJSON(opts.Config), cache.HashJSON(opts.Page))
		if data, hit := r.cacheGet(ctx, "graph", key); hit {
			if doc, err := graph.ReadDocument(bytes.NewReader(data)); err == nil {
				observability.Pipeline().OnBuildComplete(ctx, opts.Page.URL, len(doc.Graph), time.Since(start), nil)
				return doc, true, nil
			}
		}
	}

	buildOpts := append([]schema.BuildOption{schema.WithLogger(r.Logger)}, opts.Extra...)
	doc := schema.Build(opts.Config, opts.Page, opts.Lookup, buildOpts...)
	r.Logger.Debug("built graph", "page", opts.Page.URL, "nodes", len(doc.Graph))

	if key != "" {
		if data, err := graph.MarshalDocument(doc); err == nil {
			r.cacheSet(ctx, "graph", key, data, cache.TTLGraph)
		}
	}
	observability.Pipeline().OnBuildComplete(ctx, opts.Page.URL, len(doc.Graph), time.Since(start), nil)
	return doc, false, nil
}

// Documents converts a built document into the decoded form used by
// captures, so built and captured graphs flow through the same differ and
// layout code.
func Documents(doc graph.Document) ([]any, error) {
	data, err := graph.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return []any{v}, nil
}
