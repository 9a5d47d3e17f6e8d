// Package metrics records build, routing and HTTP measurements in
// Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "skillroute"

// Recorder owns the service collectors.
type Recorder struct {
	builds         *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	indexDocuments prometheus.Gauge
	buildWarnings  prometheus.Gauge
	routes         *prometheus.CounterVec
	routeDuration  prometheus.Histogram
	routeResults   prometheus.Histogram
	state          *prometheus.GaugeVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_builds_total",
				Help:      "Total number of index rebuilds by outcome",
			},
			[]string{"outcome"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_build_duration_seconds",
				Help:      "Duration of index rebuilds in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
			},
		),
		indexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_documents",
				Help:      "Number of documents in the last built index",
			},
		),
		buildWarnings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_warnings",
				Help:      "Number of warnings reported by the last build",
			},
		),
		routes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "route_queries_total",
				Help:      "Total number of routed queries by outcome",
			},
			[]string{"outcome"},
		),
		routeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "route_duration_seconds",
				Help:      "Duration of routed queries in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
		),
		routeResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "route_results",
				Help:      "Number of results returned per query",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_state",
				Help:      "1 for the current corpus service state, 0 otherwise",
			},
			[]string{"state"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(
		r.builds, r.buildDuration, r.indexDocuments, r.buildWarnings,
		r.routes, r.routeDuration, r.routeResults, r.state,
		r.httpRequests, r.httpDuration,
	)
	return r
}

// ObserveBuild records one rebuild attempt. Document and warning gauges
// only move on success.
func (r *Recorder) ObserveBuild(duration time.Duration, documents, warnings int, err error) {
	r.builds.WithLabelValues(outcome(err)).Inc()
	r.buildDuration.Observe(duration.Seconds())
	if err == nil {
		r.indexDocuments.Set(float64(documents))
		r.buildWarnings.Set(float64(warnings))
	}
}

// ObserveRoute records one routed query.
func (r *Recorder) ObserveRoute(duration time.Duration, results int, err error) {
	r.routes.WithLabelValues(outcome(err)).Inc()
	r.routeDuration.Observe(duration.Seconds())
	if err == nil {
		r.routeResults.Observe(float64(results))
	}
}

// SetState marks state as current.
func (r *Recorder) SetState(state string) {
	for _, s := range domain.ServiceStates() {
		v := 0.0
		if string(s) == state {
			v = 1
		}
		r.state.WithLabelValues(string(s)).Set(v)
	}
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route string, code int, duration time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
