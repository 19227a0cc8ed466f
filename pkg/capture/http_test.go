package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const servedPage = `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","@id":"https://x.test/#website"}</script>
</head><body></body></html>`

func testCapturer(srv *httptest.Server) *HTTPCapturer {
	c := NewHTTPCapturer(nil)
	c.Client = srv.Client()
	c.Delay = time.Millisecond
	return c
}

func TestHTTPCapturer(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(servedPage))
	}))
	defer srv.Close()

	b, err := testCapturer(srv).Capture(context.Background(), Request{Target: srv.URL, Mode: ModeRemote})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	docs, ok := b.Slot(SlotServer)
	if !ok || len(docs) != 1 {
		t.Fatalf("server slot = %v", docs)
	}
	if b.Target != srv.URL || b.Mode != ModeRemote {
		t.Errorf("key = %+v", b.Key())
	}
	if !strings.HasPrefix(ua, "ldgraph/") {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestHTTPCapturerRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(servedPage))
	}))
	defer srv.Close()

	if _, err := testCapturer(srv).Capture(context.Background(), Request{Target: srv.URL}); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestHTTPCapturerStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int32
	}{
		{"NotFound", http.StatusNotFound, ErrNotFound, 1},
		{"Forbidden", http.StatusForbidden, ErrNetwork, 1},
		{"ServerError", http.StatusInternalServerError, ErrNetwork, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := testCapturer(srv).Capture(context.Background(), Request{Target: srv.URL})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryPermanentError(t *testing.T) {
	calls := 0
	perm := errors.New("permanent")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return perm
	})
	if err != perm || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

type recordingCapturer struct{ targets []string }

func (r *recordingCapturer) Capture(_ context.Context, req Request) (*Bundle, error) {
	r.targets = append(r.targets, req.Target)
	return NewBundle(req.Key()), nil
}

func TestRouter(t *testing.T) {
	local, remote := &recordingCapturer{}, &recordingCapturer{}
	r := &Router{Local: local, Remote: remote}

	for _, target := range []string{"page.html", "HTTPS://x.test/", "file:///tmp/a.json", "http://x.test/a"} {
		if _, err := r.Capture(context.Background(), Request{Target: target}); err != nil {
			t.Fatal(err)
		}
	}
	if len(local.targets) != 2 || len(remote.targets) != 2 {
		t.Errorf("local = %v, remote = %v", local.targets, remote.targets)
	}
}
