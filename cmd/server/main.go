package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"regadmin/internal/platform/config"
	"regadmin/internal/platform/health"
	"regadmin/internal/platform/httpserver"
	"regadmin/internal/platform/logger"
	"regadmin/internal/platform/metrics"
	"regadmin/internal/platform/toast"
	"regadmin/internal/platform/tracer"
	"regadmin/internal/registrations/handler"
	"regadmin/internal/registrations/page"
	"regadmin/internal/registrations/view"
	httptransport "regadmin/internal/transport/http"
	"regadmin/pkg/platform/middleware/request"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Page state and rendering live in internal/registrations.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "regadmin:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	log.Info("initializing regadmin",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"source", cfg.Source.Kind,
		"tracing", cfg.Tracing.Exporter,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracer.NewProvider(ctx, tracer.ProviderConfig{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		ServiceName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	var tr tracer.Tracer = tracer.NewNoop()
	if provider.Enabled() {
		tr = tracer.NewOTel()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	fetchMetrics := metrics.New(registry)

	healthHandler := health.New(cfg.Environment)
	source, closeSource, err := buildSource(ctx, cfg.Source, healthHandler)
	if err != nil {
		return err
	}
	defer closeSource()

	feed := toast.NewFeed()
	registrations := page.New(source, feed, log,
		page.WithMetrics(fetchMetrics),
		page.WithTracer(tr),
		page.WithFetchTimeout(cfg.Source.FetchTimeout),
	)
	formatter := view.Formatter{Location: cfg.Display.Location, Layout: cfg.Display.DateLayout}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Latency:        request.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	},
		healthHandler,
		handler.New(registrations, feed, formatter, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if !waitForFetches(shutdownCtx, registrations) {
			log.Warn("registrations fetch still in flight at shutdown")
		}
		if terr := provider.Shutdown(shutdownCtx); terr != nil {
			log.Error("tracer shutdown failed", "error", terr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

// waitForFetches joins background fetches, giving up when ctx ends.
func waitForFetches(ctx context.Context, p *page.Page) bool {
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
