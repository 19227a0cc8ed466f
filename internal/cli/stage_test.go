package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/errors"
)

func TestStageOK(t *testing.T) {
	var buf bytes.Buffer
	st := startStage(context.Background(), &buf, stageCapture, "page.html")
	time.Sleep(200 * time.Millisecond)
	st.ok("%d slot(s) [%s]", 1, "server")

	out := buf.String()
	if !strings.Contains(out, "capture page.html...") {
		t.Errorf("no progress frame in %q", out)
	}
	if !strings.Contains(out, "capture page.html: 1 slot(s) [server]") {
		t.Errorf("no result line in %q", out)
	}
	if !strings.HasSuffix(out, ")\n") {
		t.Errorf("result should end with the elapsed time: %q", out)
	}
}

func TestStageFail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Coded",
			err:  errors.Wrap(errors.ErrCodeInvalidBundle, fmt.Errorf("unexpected EOF"), "bundle page.json is not JSON"),
			want: "capture page.json failed: bundle page.json is not JSON",
		},
		{
			name: "Plain",
			err:  fmt.Errorf("open page.json: no such file"),
			want: "capture page.json failed: open page.json: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			startStage(context.Background(), &buf, stageCapture, "page.json").fail(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestStageCompared(t *testing.T) {
	unavailable := diff.Unavailable("right capture has no %s slot", "dom")
	unavailable.Slot = "dom"

	changed := diff.Result{Status: diff.StatusOK, Slot: "server", ChangedNodes: []string{"#p"}}

	tests := []struct {
		name string
		res  diff.Result
		want string
	}{
		{"Unavailable", unavailable, "comparison unavailable for slot dom: right capture has no dom slot"},
		{"Changed", changed, "slot server: " + changed.Summary()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			startStage(context.Background(), &buf, stageLayout, "a.html vs b.html").compared(tt.res)
			if !strings.Contains(buf.String(), "layout a.html vs b.html: "+tt.want) {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestStageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer

	st := startStage(ctx, &buf, stageRender, "page.layout.json")
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !st.cancelled() {
		t.Error("stage should report cancellation")
	}
	st.stop()
}

func TestStageStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	st := startStage(context.Background(), &buf, stageRender, "")
	st.stop()
	st.stop()
	st.warn("renderer produced %d artifacts", 0)

	if st.cancelled() {
		t.Error("stopped stage reported as cancelled")
	}
	if !strings.Contains(buf.String(), "render: renderer produced 0 artifacts") {
		t.Errorf("got %q", buf.String())
	}
}
