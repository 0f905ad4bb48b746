package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_records_created_total",
		Help: "Total number of records created per model",
	}, []string{"model"})

	RecordsUpdatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_records_updated_total",
		Help: "Total number of records updated per model",
	}, []string{"model"})

	RecordsDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_records_deleted_total",
		Help: "Total number of records deleted per model",
	}, []string{"model"})

	AuthzDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_denied_total",
		Help: "Total number of requests rejected by access rules",
	}, []string{"model", "operation"})

	OrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Total number of order status writes by target status",
	}, []string{"status"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Read cache lookups by result",
	}, []string{"model", "result"})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Total number of domain events that could not be published",
	}, []string{"event_type"})

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
