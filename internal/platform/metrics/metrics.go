package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus metrics for registration fetches.
type Metrics struct {
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	FetchErrors      *prometheus.CounterVec
	FetchesJoined    prometheus.Counter
	RefreshRejected  prometheus.Counter
	RecordsLoaded    prometheus.Gauge
	LastSuccessEpoch prometheus.Gauge
	Loading          prometheus.Gauge
}

// New creates and registers the metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regadmin_registration_fetches_total",
			Help: "Total number of registration fetches by source and outcome",
		}, []string{"source", "outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regadmin_registration_fetch_duration_seconds",
			Help:    "Latency of registration fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regadmin_registration_fetch_errors_total",
			Help: "Failed registration fetches by source and error category",
		}, []string{"source", "category"}),
		FetchesJoined: factory.NewCounter(prometheus.CounterOpts{
			Name: "regadmin_registration_fetches_joined_total",
			Help: "Refresh calls that joined a fetch already in flight",
		}),
		RefreshRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "regadmin_registration_refresh_rejected_total",
			Help: "Refresh triggers rejected because a fetch was in flight",
		}),
		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "regadmin_registrations_loaded",
			Help: "Number of registrations held after the last successful fetch",
		}),
		LastSuccessEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name: "regadmin_registration_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch",
		}),
		Loading: factory.NewGauge(prometheus.GaugeOpts{
			Name: "regadmin_registration_fetch_in_flight",
			Help: "1 while a registration fetch is in flight",
		}),
	}
}

// ObserveSuccess records a successful fetch of count records.
func (m *Metrics) ObserveSuccess(source string, count int, elapsed time.Duration, at time.Time) {
	m.FetchesTotal.WithLabelValues(source, OutcomeSuccess).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.RecordsLoaded.Set(float64(count))
	m.LastSuccessEpoch.Set(float64(at.Unix()))
}

// ObserveFailure records a failed fetch with its error category.
func (m *Metrics) ObserveFailure(source, category string, elapsed time.Duration) {
	m.FetchesTotal.WithLabelValues(source, OutcomeFailure).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.FetchErrors.WithLabelValues(source, category).Inc()
}

// SetLoading mirrors the page's loading flag.
func (m *Metrics) SetLoading(loading bool) {
	if loading {
		m.Loading.Set(1)
		return
	}
	m.Loading.Set(0)
}
