package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ldgraph/pkg/buildinfo"
)

const (
	httpTimeout = 15 * time.Second

	// maxPageBytes caps how much of a response body is read.
	maxPageBytes = 10 << 20
)

var (
	// ErrNotFound is returned when the target answers 404.
	ErrNotFound = errors.New("page not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// HTTPCapturer fetches http(s) targets and extracts the ld+json blocks of
// the served HTML into the server slot. Client-side slots need a browser
// and are left to external capture tools.
type HTTPCapturer struct {
	Client   *http.Client
	Logger   *log.Logger
	Attempts int
	Delay    time.Duration
	Headers  map[string]string
}

// NewHTTPCapturer creates an HTTPCapturer with a standard timeout and three
// attempts starting one second apart. A nil logger discards output.
func NewHTTPCapturer(logger *log.Logger) *HTTPCapturer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HTTPCapturer{
		Client:   &http.Client{Timeout: httpTimeout},
		Logger:   logger,
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Capture implements Capturer.
func (c *HTTPCapturer) Capture(ctx context.Context, req Request) (*Bundle, error) {
	var body []byte
	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		var err error
		body, err = c.fetch(ctx, req.Target)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("fetched page", "url", req.Target, "bytes", len(body))

	ex, err := ExtractHTML(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	b := NewBundle(req.Key())
	b.SetSlot(SlotServer, ex.Documents)
	b.Log("capture", fmt.Sprintf("extracted %d document(s) from %s", len(ex.Documents), req.Target))
	for _, w := range ex.Warnings {
		b.Warn("%s", w)
	}
	return b, nil
}

func (c *HTTPCapturer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// =============================================================================
// Routing
// =============================================================================

// Router sends http(s) targets to Remote and everything else to Local.
type Router struct {
	Local  Capturer
	Remote Capturer
}

// NewRouter creates a Router over a FileCapturer and an HTTPCapturer that
// share logger.
func NewRouter(logger *log.Logger) *Router {
	return &Router{
		Local:  NewFileCapturer(logger),
		Remote: NewHTTPCapturer(logger),
	}
}

// Capture implements Capturer.
func (r *Router) Capture(ctx context.Context, req Request) (*Bundle, error) {
	if IsRemote(req.Target) {
		return r.Remote.Capture(ctx, req)
	}
	return r.Local.Capture(ctx, req)
}

// IsRemote reports whether target is an http(s) URL.
func IsRemote(target string) bool {
	t := strings.ToLower(target)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}

var (
	_ Capturer = (*FileCapturer)(nil)
	_ Capturer = (*HTTPCapturer)(nil)
	_ Capturer = (*Router)(nil)
)
