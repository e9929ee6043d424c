// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PageViewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkbio_page_views_total",
			Help: "Public page views recorded.",
		})

	LinkClicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_link_clicks_total",
			Help: "Link redirects served, by resolved link status.",
		}, []string{"status"})

	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_bookings_total",
			Help: "Booking attempts, by outcome.",
		}, []string{"outcome"})

	DomainVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_domain_verifications_total",
			Help: "Custom-domain verification attempts, by result.",
		}, []string{"result"})

	ActiveHosts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkbio_active_hosts",
			Help: "Custom-domain hosts currently resolved in memory.",
		})

	HostLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkbio_host_load_total",
			Help: "Custom-domain hosts successfully loaded into the cache.",
		})

	HostLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkbio_host_load_errors_total",
			Help: "Custom-domain host lookups that failed.",
		})

	HostEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkbio_host_evict_total",
			Help: "Custom-domain hosts evicted from the cache.",
		})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkbio_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(
		PageViewsTotal,
		LinkClicksTotal,
		BookingsTotal,
		DomainVerificationsTotal,
		ActiveHosts,
		HostLoadTotal,
		HostLoadErrorsTotal,
		HostEvictTotal,
		HTTPRequestDuration,
	)
}
