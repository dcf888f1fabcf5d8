// Package health serves the probes for the registrations service. Readiness
// means the configured registrations source answers; liveness only means the
// process is serving.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"regadmin/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const defaultCheckTimeout = 2 * time.Second

// Check states reported by readiness.
const (
	StateUp   = "up"
	StateDown = "down"
)

// CheckFunc pings one dependency, usually the registrations source.
type CheckFunc func(ctx context.Context) error

type Option func(*Handler)

// WithCheckTimeout bounds each readiness run.
func WithCheckTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.checkTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// Handler serves /health, /health/live and /health/ready.
type Handler struct {
	environment  string
	checkTimeout time.Duration
	now          func() time.Time
	started      time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string, opts ...Option) *Handler {
	h := &Handler{
		environment:  environment,
		checkTimeout: defaultCheckTimeout,
		now:          time.Now,
		checks:       make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.started = h.now()
	return h
}

// RegisterCheck adds a readiness check. A second check with the same name replaces the first.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// HandleReadiness runs the checks concurrently under one deadline and
// answers 503 when any is down. A slow source cannot hold the probe past
// the check timeout.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	resp := h.Ready(r.Context())
	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

// Ready runs every registered check.
func (h *Handler) Ready(ctx context.Context) ReadinessResponse {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	funcs := make([]CheckFunc, 0, len(h.checks))
	for name, check := range h.checks {
		names = append(names, name)
		funcs = append(funcs, check)
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	results := make([]CheckResult, len(funcs))
	var g errgroup.Group
	for i, check := range funcs {
		g.Go(func() error {
			start := h.now()
			err := check(ctx)
			res := CheckResult{State: StateUp, DurationMS: h.now().Sub(start).Milliseconds()}
			if err != nil {
				res.State = StateDown
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadinessResponse{Status: "ready", Checks: make(map[string]CheckResult, len(names))}
	for i, name := range names {
		resp.Checks[name] = results[i]
		if results[i].State == StateDown {
			resp.Status = "not_ready"
		}
	}
	return resp
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
