// Package metrics exposes analytics instrumentation as Prometheus collectors
// registered on an injected registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop_analytics"

// Prometheus implements dependency.Instrumentation.
type Prometheus struct {
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	QueryDuration      *prometheus.HistogramVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Analytics reports served from cache",
			},
			[]string{"domain"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Analytics reports generated on a cache miss",
			},
			[]string{"domain"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Time spent serving and generating analytics reports",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"domain", "operation"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Time spent in a single aggregation",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
			[]string{"domain", "query_type"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
}

func (p *Prometheus) CacheHit(domainId string) {
	p.CacheHits.WithLabelValues(domainId).Inc()
}

func (p *Prometheus) CacheMiss(domainId string) {
	p.CacheMisses.WithLabelValues(domainId).Inc()
}

func (p *Prometheus) ObserveGeneration(domainId, operation string, d time.Duration) {
	p.GenerationDuration.WithLabelValues(domainId, operation).Observe(d.Seconds())
}

func (p *Prometheus) ObserveQuery(domainId, queryType string, d time.Duration) {
	p.QueryDuration.WithLabelValues(domainId, queryType).Observe(d.Seconds())
}

// ObserveHTTP records a finished HTTP request.
func (p *Prometheus) ObserveHTTP(method, route, status string, d time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
