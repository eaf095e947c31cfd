// Package metrics registers the internal Prometheus instruments
// described in spec §10: fsops step duration, event-bus subscriber
// backlog, HTTP request counts, and SSE subscriber count. None of these
// are mounted behind an exposition handler here — metrics exposition
// format is an external-collaborator concern — but a caller that wants
// one can point promhttp.Handler at the default registry without
// touching any instrumented call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts every handled request by route and
	// response status, incremented from pkg/httpapi's router middleware.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revaer_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "revaer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// FsopsStepDuration tracks how long each filesystem pipeline step
	// takes, incremented from pkg/fsops.
	FsopsStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "revaer_fsops_step_duration_seconds",
			Help:    "Filesystem pipeline step duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	// EventBusSubscribers gauges the number of live subscriptions on the
	// shared event bus, incremented/decremented from pkg/events.
	EventBusSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "revaer_event_bus_subscribers",
			Help: "Number of active event bus subscriptions",
		},
	)

	// SSESubscribers gauges the number of live SSE client connections,
	// incremented/decremented from pkg/sse.
	SSESubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "revaer_sse_subscribers",
			Help: "Number of active SSE client connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		FsopsStepDuration,
		EventBusSubscribers,
		SSESubscribers,
	)
}
