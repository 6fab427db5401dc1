// Package metrics records analysis outcomes with Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements service.Recorder using Prometheus.
type Recorder struct {
	registry     *prometheus.Registry
	analyses     *prometheus.CounterVec
	trendChanges *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
	requests     *prometheus.CounterVec
}

// New creates a recorder on its own registry so several recorders can coexist.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyckoff_analyses_total",
				Help: "Total number of analyses by outcome",
			},
			[]string{"symbol", "interval", "status"},
		),
		trendChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyckoff_trend_changes_total",
				Help: "Trend-change events detected, by category",
			},
			[]string{"category"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wyckoff_last_close",
				Help: "Close of the last analysed candle",
			},
			[]string{"symbol", "interval"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wyckoff_analysis_duration_seconds",
				Help:    "Duration of a full analysis in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wyckoff_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"route", "method", "status"},
		),
	}
}

// RecordAnalysis records one analysis run and its latency.
func (r *Recorder) RecordAnalysis(symbol, interval, status string, seconds float64) {
	r.analyses.WithLabelValues(symbol, interval, status).Inc()
	r.latency.WithLabelValues(symbol).Observe(seconds)
}

// RecordTrendChange counts one detected event.
func (r *Recorder) RecordTrendChange(category string) {
	r.trendChanges.WithLabelValues(category).Inc()
}

// RecordLastPrice records the last close for a symbol and interval.
func (r *Recorder) RecordLastPrice(symbol, interval string, price float64) {
	r.lastPrice.WithLabelValues(symbol, interval).Set(price)
}

// RecordRequest counts an HTTP request by templated route.
func (r *Recorder) RecordRequest(route, method, status string) {
	r.requests.WithLabelValues(route, method, status).Inc()
}

// Handler exposes the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer is used by tests and embedding applications.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
