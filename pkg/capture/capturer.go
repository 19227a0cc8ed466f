package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Request asks a Capturer to snapshot one target.
type Request struct {
	Target string
	Mode   string
	Inject bool
}

// Key returns the cache key of the request.
func (r Request) Key() Key {
	return Key{Target: r.Target, Mode: r.Mode, Inject: r.Inject}
}

// Capturer produces bundles. Implementations own transport, timeouts and
// retries; callers only see the returned bundle.
type Capturer interface {
	Capture(ctx context.Context, req Request) (*Bundle, error)
}

// FileCapturer captures local files. HTML files are scanned for ld+json
// blocks, which land in the server slot. JSON files are read as bundles,
// except bare JSON-LD documents, which become a one-document server slot.
type FileCapturer struct {
	Logger *log.Logger
}

// NewFileCapturer creates a FileCapturer. A nil logger discards output.
func NewFileCapturer(logger *log.Logger) *FileCapturer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileCapturer{Logger: logger}
}

// Capture implements Capturer.
func (c *FileCapturer) Capture(ctx context.Context, req Request) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(req.Target, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c.logger().Debug("capturing file", "path", path, "bytes", len(data))

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if isDocument(data) {
			v, err := decode(data)
			if err != nil {
				return nil, err
			}
			b := NewBundle(req.Key())
			b.SetSlot(SlotServer, []any{v})
			b.Log("capture", "read JSON-LD document from "+path)
			return b, nil
		}
		b, err := ParseBundle(data)
		if err != nil {
			return nil, err
		}
		fillKey(b, req)
		return b, nil
	}

	ex, err := ExtractHTML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := NewBundle(req.Key())
	b.SetSlot(SlotServer, ex.Documents)
	b.Log("capture", fmt.Sprintf("extracted %d document(s) from %s", len(ex.Documents), path))
	for _, w := range ex.Warnings {
		b.Warn("%s", w)
	}
	return b, nil
}

func (c *FileCapturer) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

// isDocument reports whether data is a JSON-LD object rather than a bundle.
func isDocument(data []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return false
	}
	if _, ok := top["slots"]; ok {
		return false
	}
	for _, k := range []string{"@context", "@graph", "@type"} {
		if _, ok := top[k]; ok {
			return true
		}
	}
	return false
}

// fillKey sets identity fields a stored bundle left empty.
func fillKey(b *Bundle, req Request) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CapturedAt.IsZero() {
		b.CapturedAt = time.Now().UTC()
	}
	if b.Target == "" {
		b.Target = req.Target
	}
	if b.Mode == "" {
		b.Mode = req.Mode
	}
	if !b.Inject {
		b.Inject = req.Inject
	}
}
