package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/observability"
	"github.com/matzehuels/ldgraph/pkg/render"
	"github.com/matzehuels/ldgraph/pkg/render/nodelink"
)

// Render produces artifacts for every requested format.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts RenderOptions) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether every artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{
			Format:   format,
			Engine:   opts.Engine,
			Detailed: opts.Detailed,
		})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit := r.cacheGet(ctx, "artifact", keyFor(format))
		if !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderLayout(l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.cacheSet(ctx, "artifact", keyFor(format), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// RenderLayout renders a layout without caching. Grid layouts are drawn
// through their nodelink form with positions pinned to the grid.
func RenderLayout(l graph.Layout, opts RenderOptions) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := l.DOT
	if dot == "" {
		dot = nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})
	}
	engine := opts.Engine
	if l.Engine != "" {
		engine = l.Engine
	}

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVGWith(dot, engine)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data, err = svgOnce()
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatJSON:
			data, err = graph.MarshalLayout(l)
		case render.FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(data)
			}
		case render.FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
