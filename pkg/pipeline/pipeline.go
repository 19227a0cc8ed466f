// Package pipeline orchestrates ldgraph's stages behind one cached Runner.
//
// The CLI and the preview server share this package so that both produce the
// same documents, diffs, layouts and artifacts for the same inputs.
//
// # Stages
//
//  1. Build: site config + page summary → JSON-LD document
//  2. Capture: target → bundle of ld+json documents per slot (cached)
//  3. Compare: two bundles → per-slot diff
//  4. Layout: documents (+ optional diff) → grid or nodelink layout (cached)
//  5. Render: layout → SVG, DOT, JSON, PDF or PNG artifacts (cached)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	left, _, err := runner.Capture(ctx, pipeline.CaptureOptions{Request: reqA})
//	right, _, err := runner.Capture(ctx, pipeline.CaptureOptions{Request: reqB})
//	l, res, err := runner.Layout(ctx, left, right, pipeline.LayoutOptions{Slot: "dom"})
//	artifacts, err := runner.Render(ctx, l, pipeline.RenderOptions{Formats: []string{"svg"}})
package pipeline

import (
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/errors"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/render"
	"github.com/matzehuels/ldgraph/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSlot is compared when no slot is named. Local HTML captures
	// only fill the server slot.
	DefaultSlot = capture.SlotServer

	// DefaultMode is the capture mode when none is given.
	DefaultMode = capture.ModeLocal

	// DefaultVizType is the default layout type.
	DefaultVizType = graph.VizTypeGrid

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = []string{render.FormatSVG, render.FormatDOT, render.FormatJSON, render.FormatPDF, render.FormatPNG}

// ValidVizTypes is the set of supported layout types.
var ValidVizTypes = []string{graph.VizTypeGrid, graph.VizTypeNodelink}

// =============================================================================
// Options
// =============================================================================

// CaptureOptions configures Runner.Capture.
type CaptureOptions struct {
	capture.Request
	// Refresh skips the cache read; the fresh bundle is still stored.
	Refresh bool
}

// LayoutOptions configures Runner.Layout.
type LayoutOptions struct {
	Slot       string  `json:"slot,omitempty"`
	VizType    string  `json:"viz_type,omitempty"`
	MaxColumns int     `json:"max_columns,omitempty"`
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// RenderOptions configures Runner.Render.
type RenderOptions struct {
	Formats  []string `json:"formats,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a layout type is supported.
func ValidateVizType(vizType string) error {
	for _, v := range ValidVizTypes {
		if v == vizType {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type %q (must be one of: grid, nodelink)", vizType)
}

// ValidateForCapture checks the request and applies defaults.
func (o *CaptureOptions) ValidateForCapture() error {
	if o.Target == "" {
		return errors.New(errors.ErrCodeInvalidInput, "capture target is required")
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	return errors.ValidateMode(o.Mode)
}

// ValidateForLayout checks the options and applies defaults.
func (o *LayoutOptions) ValidateForLayout() error {
	if o.Slot == "" {
		o.Slot = DefaultSlot
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if err := errors.ValidateSlotName(o.Slot); err != nil {
		return err
	}
	return ValidateVizType(o.VizType)
}

// ValidateForRender checks the options and applies defaults.
func (o *RenderOptions) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = nodelink.DefaultEngine
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return ValidateFormats(o.Formats)
}
