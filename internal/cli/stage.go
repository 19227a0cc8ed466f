package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/errors"
)

// Pipeline stages shown by the status line.
const (
	stageCapture = "capture"
	stageLayout  = "layout"
	stageRender  = "render"
)

var stageFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stage animates one pipeline stage on the status writer and reports how it
// ended: "✓ capture page.html: 2 slot(s) (12ms)". The animation stops when
// the stage finishes or ctx is cancelled.
type stage struct {
	name    string
	subject string
	w       io.Writer
	start   time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int
}

// startStage begins animating name for subject, e.g. ("capture", "page.html").
func startStage(ctx context.Context, w io.Writer, name, subject string) *stage {
	stageCtx, cancel := context.WithCancel(ctx)
	s := &stage{
		name:    name,
		subject: subject,
		w:       w,
		start:   time.Now(),
		ctx:     stageCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *stage) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-s.done:
			return
		case <-ticker.C:
			line := s.label() + "..."
			s.mu.Lock()
			s.width = len(line) + 2
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(stageFrames[i%len(stageFrames)]), StyleDim.Render(line))
			s.mu.Unlock()
		}
	}
}

// label is the stage name plus its subject.
func (s *stage) label() string {
	if s.subject == "" {
		return s.name
	}
	return s.name + " " + s.subject
}

// stop ends the animation and clears the line. It is safe to call repeatedly.
func (s *stage) stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.cancel()
		s.clearLine()
	})
}

func (s *stage) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

func (s *stage) elapsed() string {
	return time.Since(s.start).Round(time.Millisecond).String()
}

// ok stops the stage and reports a result such as "3 nodes, 2 edges".
func (s *stage) ok(format string, args ...any) {
	s.stop()
	msg := s.label()
	if format != "" {
		msg += ": " + fmt.Sprintf(format, args...)
	}
	fmt.Fprintf(s.w, "%s %s %s\n", styleIconSuccess.Render(iconSuccess), msg, StyleDim.Render("("+s.elapsed()+")"))
}

// fail stops the stage and reports err in user-facing form.
func (s *stage) fail(err error) {
	s.stop()
	fmt.Fprintf(s.w, "%s %s failed: %s\n", styleIconError.Render(iconError), s.label(), errors.UserMessage(err))
}

// warn reports a non-fatal outcome of the stage, such as a capture warning.
func (s *stage) warn(format string, args ...any) {
	s.stop()
	fmt.Fprintf(s.w, "%s %s: %s\n", styleIconWarning.Render(iconWarning), s.label(), StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// compared reports a diff outcome. An unavailable comparison is a warning
// carrying its reason; otherwise the diff summary is the result.
func (s *stage) compared(res diff.Result) {
	if !res.Available() {
		s.warn("comparison unavailable for slot %s: %s", res.Slot, res.Reason)
		return
	}
	s.ok("slot %s: %s", res.Slot, res.Summary())
}

// cancelled reports whether ctx ended the stage.
func (s *stage) cancelled() bool {
	return s.ctx.Err() != nil && !s.finished()
}

func (s *stage) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
