// Package metrics holds the Prometheus collectors. They register with the
// default registry, which /metrics serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_lookup_lookups_total",
			Help: "Total number of /lookup requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discord_lookup_upstream_duration_seconds",
			Help:    "Duration of Discord API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	WidgetSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_lookup_widget_searches_total",
			Help: "Total number of widget searches by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_lookup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)
