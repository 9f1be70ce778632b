package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sessions_created_total",
		Help: "Total number of shopper sessions created",
	})

	CartEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_events_total",
		Help: "Cart mutations applied, by event and outcome",
	}, []string{"event", "outcome"})

	CartItemCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_cart_item_count",
		Help:    "Cart badge count observed after each mutation",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	CartSubtotal = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_cart_subtotal",
		Help:    "Cart subtotal in currency units observed after each mutation",
		Buckets: prometheus.ExponentialBuckets(100, 2, 10),
	})

	CatalogViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_views_total",
		Help: "Catalog views served, by sort key",
	}, []string{"sort"})

	CatalogUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_updates_total",
		Help: "Catalog update events consumed, by result",
	}, []string{"result"})

	SessionLockWaitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_session_lock_wait_seconds",
		Help:    "Time spent acquiring the per-session lock",
		Buckets: prometheus.DefBuckets,
	})

	SessionLockContendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_session_lock_contended_total",
		Help: "Mutations rejected because the session stayed locked",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
