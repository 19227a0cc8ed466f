package render

import (
	"os/exec"
	"testing"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{FormatSVG, "image/svg+xml"},
		{FormatDOT, "text/vnd.graphviz"},
		{FormatJSON, "application/json"},
		{FormatPDF, "application/pdf"},
		{FormatPNG, "image/png"},
		{"gif", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.format); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestToPDFWithoutRSVG(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err == nil {
		t.Skip("rsvg-convert installed")
	}
	if _, err := ToPDF([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)); err == nil {
		t.Error("expected error without rsvg-convert")
	}
}
