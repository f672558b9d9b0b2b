// Package metrics exposes Prometheus instruments for the advisor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus instruments on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal     *prometheus.CounterVec // labels: verdict
	FetchErrorsTotal  *prometheus.CounterVec // labels: provider
	IndicatorDuration *prometheus.HistogramVec
	PlanErrorsTotal   *prometheus.CounterVec // labels: action
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	Notifications     *prometheus.CounterVec // labels: status
}

// NewMetrics creates and registers all instruments.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_analyses_total",
			Help: "Completed analyses by overall verdict",
		}, []string{"verdict"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_fetch_errors_total",
			Help: "Market data fetch failures by provider",
		}, []string{"provider"}),
		IndicatorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advisor_indicator_compute_seconds",
			Help:    "Time spent computing indicators for one series",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"strategy"}),
		PlanErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_plan_errors_total",
			Help: "Price plans that could not be computed by action",
		}, []string{"action"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_cache_hits_total",
			Help: "Bar cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_cache_misses_total",
			Help: "Bar cache misses",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_notifications_total",
			Help: "Telegram messages by delivery status",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AnalysesTotal,
		m.FetchErrorsTotal,
		m.IndicatorDuration,
		m.PlanErrorsTotal,
		m.CacheHits,
		m.CacheMisses,
		m.Notifications,
	)
	return m
}

// Registry returns the private registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnalysis(verdict string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(verdict).Inc()
}

func (m *Metrics) ObserveFetchError(provider string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) ObserveCompute(strategy string, d time.Duration) {
	if m == nil {
		return
	}
	m.IndicatorDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *Metrics) ObservePlanError(action string) {
	if m == nil {
		return
	}
	m.PlanErrorsTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) ObserveNotification(ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.Notifications.WithLabelValues(status).Inc()
}

// Server returns an HTTP server exposing /metrics on addr.
func (m *Metrics) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
