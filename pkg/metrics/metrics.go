// Package metrics publishes Prometheus metrics for acquisition activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcome label values.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Recorder publishes Prometheus metrics for acquisition calls. It satisfies
// the acquisition service's Monitor contract.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	lookups        *prometheus.CounterVec
	cacheAge       prometheus.Histogram
	terminalErrors *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "setcache",
		Name:      "acquisition_lookups_total",
		Help:      "Acquisition calls by cache outcome.",
	}, []string{"outcome"})

	cacheAge := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "setcache",
		Name:      "acquisition_cache_age_seconds",
		Help:      "Age of served cache entries.",
		Buckets:   prometheus.ExponentialBuckets(60, 4, 9),
	})

	terminalErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "setcache",
		Name:      "acquisition_terminal_errors_total",
		Help:      "Terminal acquisition errors by class.",
	}, []string{"class"})

	reg.MustRegister(lookups, cacheAge, terminalErrors)

	return &Recorder{
		gatherer:       reg,
		handler:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		lookups:        lookups,
		cacheAge:       cacheAge,
		terminalErrors: terminalErrors,
	}
}

// CacheHit records a served cache entry and its age.
func (r *Recorder) CacheHit(age time.Duration) {
	r.lookups.WithLabelValues(OutcomeHit).Inc()
	r.cacheAge.Observe(age.Seconds())
}

// CacheMiss records a call that had to go upstream.
func (r *Recorder) CacheMiss() {
	r.lookups.WithLabelValues(OutcomeMiss).Inc()
}

// TerminalError records a classified terminal error.
func (r *Recorder) TerminalError(class string) {
	r.terminalErrors.WithLabelValues(class).Inc()
}

// Handler exposes the registry for mounting on a service mux.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.gatherer
}
