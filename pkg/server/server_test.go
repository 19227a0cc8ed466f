package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/ldgraph/pkg/diff"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/pipeline"
)

const (
	leftBundle  = `{"id":"l","slots":{"dom":[{"@graph":[{"@type":"Person","@id":"#p","name":"A"}]}]}}`
	rightBundle = `{"id":"r","slots":{"dom":[{"@graph":[{"@type":"Person","@id":"#p","name":"B"}]}]}}`
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, nil), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "ldgraph/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestBuild(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"config": {"site_url": "https://x.test", "site_name": "X", "person": {"enabled": true, "name": "Ada"}},
		"page": {"category": "home"}
	}`
	resp := post(t, srv, "/v1/build", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/ld+json" {
		t.Errorf("Content-Type = %q", ct)
	}

	doc, err := graph.ReadDocument(resp.Body)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	for _, id := range []string{"https://x.test/#website", "https://x.test/#person", "https://x.test/#webpage"} {
		if _, ok := doc.Node(id); !ok {
			t.Errorf("missing %s in %v", id, doc.IDs())
		}
	}
}

func TestBuildBadBody(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/build", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	if e.Code != "INVALID_INPUT" {
		t.Errorf("code = %q", e.Code)
	}
}

func TestWrongContentType(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/build", "text/plain", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestDiff(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus string
		wantChange int
	}{
		{"changed", `{"left":` + leftBundle + `,"right":` + rightBundle + `,"slot":"dom"}`, diff.StatusOK, 1},
		{"missing right", `{"left":` + leftBundle + `,"slot":"dom"}`, diff.StatusUnavailable, 0},
		{"missing slot", `{"left":` + leftBundle + `,"right":` + rightBundle + `,"slot":"server"}`, diff.StatusUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/diff", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var res diff.Result
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Status != tt.wantStatus || len(res.ChangedNodes) != tt.wantChange {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestDiffInvalidBundle(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/diff", `{"left":"not a bundle","right":null}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/layout", `{"left":`+leftBundle+`,"right":`+rightBundle+`,"slot":"dom"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(l.Nodes) != 1 || l.Nodes[0].Status != graph.StatusChanged {
		t.Errorf("nodes = %+v", l.Nodes)
	}
}

func TestLayoutNoCapture(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/layout", `{"slot":"dom"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderDOT(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/render?format=dot", `{"right":`+rightBundle+`,"slot":"dom"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `"#p"`) {
		t.Errorf("dot = %s", data)
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/render?format=pdf", `{"left":`+leftBundle+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
