package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"regadmin/internal/platform/metrics"
	"regadmin/internal/platform/toast"
	"regadmin/internal/registrations/handler"
	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/page"
	"regadmin/internal/registrations/view"
	httptransport "regadmin/internal/transport/http"
)

// scriptedSource answers ListRegistrations with whatever the scenario set up.
type scriptedSource struct {
	mu      sync.Mutex
	records []*models.Registration
	err     error
	gate    chan struct{}
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// hold makes fetches block until the returned func is called.
func (s *scriptedSource) hold() func() {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *scriptedSource) set(records []*models.Registration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records, s.err = records, err
}

// TestContext holds state between test steps
type TestContext struct {
	Server           *httptest.Server
	HTTPClient       *http.Client
	Source           *scriptedSource
	Page             *page.Page
	LastResponse     *http.Response
	LastResponseBody []byte
}

// NewTestContext wires the real router against a scripted source.
func NewTestContext() *TestContext {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := &scriptedSource{}
	feed := toast.NewFeed()
	registrations := page.New(source, feed, logger,
		page.WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	formatter := view.Formatter{Location: time.UTC, Layout: "1/2/2006"}

	router := httptransport.NewRouter(httptransport.RouterConfig{Logger: logger},
		handler.New(registrations, feed, formatter, logger),
	)

	return &TestContext{
		Server: httptest.NewServer(router),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Source: source,
		Page:   registrations,
	}
}

// Close stops the server and joins background fetches.
func (tc *TestContext) Close() {
	tc.Page.Wait()
	tc.Server.Close()
}

func (tc *TestContext) do(method, path string, headers map[string]string) error {
	req, err := http.NewRequestWithContext(context.Background(), method, tc.Server.URL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

// POST makes a bodiless POST request and stores the response
func (tc *TestContext) POST(path string) error {
	return tc.do(http.MethodPost, path, nil)
}

// View decodes the last response as the registrations API payload.
func (tc *TestContext) View() (view.Page, error) {
	var p view.Page
	if err := json.Unmarshal(tc.LastResponseBody, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal response: %w\nResponse: %s", err, tc.LastResponseBody)
	}
	return p, nil
}

// ResponseContains checks if the response body contains text
func (tc *TestContext) ResponseContains(text string) bool {
	return strings.Contains(string(tc.LastResponseBody), text)
}

var errNoResponse = errors.New("no response recorded")
