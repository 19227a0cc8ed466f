package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/ldgraph/pkg/buildinfo"
	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/errors"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
	"github.com/matzehuels/ldgraph/pkg/render"
	"github.com/matzehuels/ldgraph/pkg/schema"
)

// =============================================================================
// Request Types
// =============================================================================

type buildRequest struct {
	Config schema.Config      `json:"config"`
	Page   schema.PageSummary `json:"page"`
}

type compareRequest struct {
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`
	Slot  string          `json:"slot"`

	VizType    string  `json:"viz_type"`
	MaxColumns int     `json:"max_columns"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Detailed   bool    `json:"detailed"`
}

// bundles decodes both sides. Absent or null sides are nil.
func (req compareRequest) bundles() (left, right *capture.Bundle, err error) {
	if left, err = bundleOf(req.Left, "left"); err != nil {
		return nil, nil, err
	}
	if right, err = bundleOf(req.Right, "right"); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (req compareRequest) layoutOptions() pipeline.LayoutOptions {
	return pipeline.LayoutOptions{
		Slot:       req.Slot,
		VizType:    req.VizType,
		MaxColumns: req.MaxColumns,
		CellWidth:  req.CellWidth,
		CellHeight: req.CellHeight,
		Detailed:   req.Detailed,
	}
}

func bundleOf(raw json.RawMessage, side string) (*capture.Bundle, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	b, err := capture.ParseBundle(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBundle, err, "%s capture", side)
	}
	return b, nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if !s.decode(w, r, &req) {
		return
	}
	doc, err := s.runner.Build(r.Context(), pipeline.BuildOptions{Config: req.Config, Page: req.Page})
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := graph.MarshalDocument(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/ld+json")
	_, _ = w.Write(data)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}
	left, right, err := req.bundles()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Compare(r.Context(), left, right, req.Slot))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, ok := s.layout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := errors.ValidateFormat(format, render.FormatSVG, render.FormatDOT); err != nil {
		s.writeError(w, err)
		return
	}

	l, ok := s.layout(w, r)
	if !ok {
		return
	}
	artifacts, err := s.runner.Render(r.Context(), l, pipeline.RenderOptions{Formats: []string{format}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	_, _ = w.Write(artifacts[format])
}

// layout decodes a compare request and computes its layout. On failure the
// error response has been written.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) (graph.Layout, bool) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return graph.Layout{}, false
	}
	left, right, err := req.bundles()
	if err != nil {
		s.writeError(w, err)
		return graph.Layout{}, false
	}
	if left == nil {
		left, right = right, nil
	}
	l, _, err := s.runner.Layout(r.Context(), left, right, req.layoutOptions())
	if err != nil {
		s.writeError(w, err)
		return graph.Layout{}, false
	}
	return l, true
}

// =============================================================================
// Encoding
// =============================================================================

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
