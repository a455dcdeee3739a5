// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curricula_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "curricula_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curricula_jobs_total",
			Help: "Finished parse jobs by kind and final status",
		},
		[]string{"kind", "status"},
	)

	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curricula_parse_duration_seconds",
			Help:    "Time spent parsing extracted text",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	DocumentOrigin = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curricula_refresh_documents_total",
			Help: "Documents used by refresh jobs, by where they were found",
		},
		[]string{"origin"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curricula_queue_depth",
			Help: "Jobs waiting for a worker",
		},
	)
)
