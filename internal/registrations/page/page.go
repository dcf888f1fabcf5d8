// Package page holds the state behind the registrations admin page: the last
// fetched record list and the loading flag. One Page is shared by every request.
package page

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"regadmin/internal/platform/metrics"
	"regadmin/internal/platform/toast"
	"regadmin/internal/platform/tracer"
	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/search"
	"regadmin/internal/registrations/store"
	dErrors "regadmin/pkg/domain-errors"
)

// Source returns every registration, newest first.
// Implementations classify failures with store.FetchError.
type Source interface {
	Name() string
	ListRegistrations(ctx context.Context) ([]*models.Registration, error)
}

// Fixed document metadata for the page.
const (
	Title       = "Admin - Registrations"
	Description = "Admin panel to manage registrations, category details and status."
)

// Notice texts.
const (
	successTitle       = "Success"
	errorTitle         = "Error"
	errorDescription   = "Failed to fetch registrations"
	successDescription = "Loaded %d registrations"
)

const flightKey = "registrations"

type Option func(*Page)

// WithMetrics sets the metrics instance for the page.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Page) {
		p.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(p *Page) {
		if t != nil {
			p.tracer = t
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero keeps the default of no timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Page) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Page) {
		p.now = now
	}
}

// Page owns the fetched registrations and the loading flag.
type Page struct {
	source   Source
	notifier toast.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	timeout  time.Duration
	now      func() time.Time

	flight singleflight.Group
	opened sync.Once
	wg     sync.WaitGroup

	mu      sync.RWMutex
	records []*models.Registration
	// inflight counts Refresh calls that have not returned, including the
	// one run by a Trigger goroutine. The page is loading while it is non-zero.
	inflight  int
	fetchedAt time.Time
}

func New(source Source, notifier toast.Notifier, logger *slog.Logger, opts ...Option) *Page {
	p := &Page{
		source:   source,
		notifier: notifier,
		logger:   logger,
		tracer:   tracer.NewNoop(),
		now:      time.Now,
		records:  []*models.Registration{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot is a consistent view of the page for one render.
type Snapshot struct {
	Loading bool
	// Total is the number of records held from the last successful fetch.
	Total int
	// Filtered holds the records matching the search term, sharing pointers
	// with the held list.
	Filtered  []*models.Registration
	FetchedAt time.Time
}

// Snapshot filters the held records by term. It never fetches.
func (p *Page) Snapshot(term string) Snapshot {
	p.mu.RLock()
	records := p.records
	loading := p.inflight > 0
	fetchedAt := p.fetchedAt
	p.mu.RUnlock()

	// records is replaced wholesale on fetch and never mutated, so filtering
	// outside the lock is safe.
	return Snapshot{
		Loading:   loading,
		Total:     len(records),
		Filtered:  search.Filter(records, term),
		FetchedAt: fetchedAt,
	}
}

// Loading reports whether a fetch is in flight.
func (p *Page) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inflight > 0
}

// Open starts the initial fetch the first time the page is displayed.
// It reports whether this call started it.
func (p *Page) Open(ctx context.Context) bool {
	started := false
	p.opened.Do(func() {
		started = p.Trigger(ctx)
	})
	return started
}

// Trigger starts a background fetch unless one is already in flight, and
// reports whether it did. The fetch outlives ctx's cancellation.
func (p *Page) Trigger(ctx context.Context) bool {
	p.mu.Lock()
	if p.inflight > 0 {
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.RefreshRejected.Inc()
		}
		return false
	}
	p.beginLocked()
	p.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.end()
		_ = p.share(bg)
	}()
	return true
}

// Wait blocks until background fetches started by Open or Trigger finish.
func (p *Page) Wait() {
	p.wg.Wait()
}

// Refresh fetches the registrations and replaces the held list on success.
// Concurrent callers share one fetch and its outcome; notices are emitted
// once per fetch. On failure the held list is left unchanged. The page
// reports loading until every caller has returned.
func (p *Page) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.beginLocked()
	p.mu.Unlock()
	defer p.end()

	return p.share(ctx)
}

func (p *Page) share(ctx context.Context) error {
	executed := false
	_, err, _ := p.flight.Do(flightKey, func() (any, error) {
		executed = true
		return nil, p.fetch(ctx)
	})
	if !executed && p.metrics != nil {
		p.metrics.FetchesJoined.Inc()
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeFetchFailed, "fetch registrations")
	}
	return nil
}

// beginLocked must be called with mu held. The gauge is updated under the
// lock so it follows the same order as inflight.
func (p *Page) beginLocked() {
	p.inflight++
	if p.inflight == 1 && p.metrics != nil {
		p.metrics.SetLoading(true)
	}
}

func (p *Page) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--
	if p.inflight == 0 && p.metrics != nil {
		p.metrics.SetLoading(false)
	}
}

func (p *Page) fetch(ctx context.Context) (err error) {
	name := p.source.Name()
	ctx, span := p.tracer.Start(ctx, tracer.SpanFetch, tracer.String(tracer.AttrSource, name))
	defer func() { span.End(err) }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := p.now()
	records, err := p.query(ctx, name)
	elapsed := p.now().Sub(start)

	if err != nil {
		category := string(store.CategoryOf(err))
		p.logger.ErrorContext(ctx, "fetch registrations failed",
			"error", err,
			"source", name,
			"category", category,
			"duration_ms", elapsed.Milliseconds(),
		)
		span.SetAttributes(tracer.String(tracer.AttrErrorCategory, category))
		if p.metrics != nil {
			p.metrics.ObserveFailure(name, category, elapsed)
		}
		p.notifier.Notify(toast.Notice{
			Title:       errorTitle,
			Description: errorDescription,
			Variant:     toast.VariantDestructive,
		})
		return err
	}

	if records == nil {
		records = []*models.Registration{}
	}
	fetchedAt := p.now()

	p.mu.Lock()
	p.records = records
	p.fetchedAt = fetchedAt
	p.mu.Unlock()

	span.SetAttributes(tracer.Int(tracer.AttrCount, len(records)))
	if p.metrics != nil {
		p.metrics.ObserveSuccess(name, len(records), elapsed, fetchedAt)
	}
	p.logger.InfoContext(ctx, "registrations loaded",
		"source", name,
		"count", len(records),
		"duration_ms", elapsed.Milliseconds(),
	)
	p.notifier.Notify(toast.Notice{
		Title:       successTitle,
		Description: fmt.Sprintf(successDescription, len(records)),
	})
	return nil
}

func (p *Page) query(ctx context.Context, name string) (records []*models.Registration, err error) {
	ctx, span := p.tracer.Start(ctx, tracer.SpanSourceQuery, tracer.String(tracer.AttrSource, name))
	defer func() { span.End(err) }()
	return p.source.ListRegistrations(ctx)
}
