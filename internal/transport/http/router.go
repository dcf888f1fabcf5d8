package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"regadmin/pkg/platform/middleware/request"
	"regadmin/pkg/platform/middleware/requesttime"
	"regadmin/pkg/platform/validation"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig holds the cross-cutting pieces of the middleware stack.
type RouterConfig struct {
	Logger         *slog.Logger
	Latency        *request.Metrics
	MetricsHandler http.Handler
	Timeout        time.Duration
	MaxBodyBytes   int64
}

const defaultTimeout = 30 * time.Second

// NewRouter wires the middleware stack and mounts every registrar.
// Handlers delegate to their services; no business logic lives here.
func NewRouter(cfg RouterConfig, registrars ...Registrar) http.Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = validation.MaxBodySize
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Latency != nil {
		r.Use(request.LatencyMiddleware(cfg.Latency))
	}
	r.Use(request.Timeout(cfg.Timeout))
	r.Use(request.BodyLimit(cfg.MaxBodyBytes))

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	for _, reg := range registrars {
		reg.Register(r)
	}

	return r
}
