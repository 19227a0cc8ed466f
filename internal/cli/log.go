// Package cli implements the ldgraph command-line interface.
//
// The CLI wraps the pipeline runner: it builds page graphs from a site
// config, captures pages into bundles, compares captures, and lays out and
// renders graphs. Results are cached in the backend named by the config file
// (local files by default, Redis when configured).
//
// # Commands
//
// The main commands are:
//   - build: Emit the JSON-LD document for one page
//   - capture: Snapshot the ld+json blocks of an HTML file or bundle
//   - diff: Compare two captures slot by slot
//   - layout / visualize: Lay out a capture or diff and render it
//   - browse: Explore a diff interactively
//   - serve: Run the preview HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Built 6 nodes (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
