package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	// Storage metrics
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caseflow_storage_operation_duration_seconds",
			Help:    "Duration of storage adapter operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caseflow_storage_errors_total",
			Help: "Total number of storage adapter errors",
		},
		[]string{"backend", "operation"},
	)

	// Counter maintenance metrics
	CounterRefreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caseflow_counter_refresh_failures_total",
			Help: "Total number of swallowed case counter refresh failures",
		},
	)

	// Upload metrics
	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caseflow_upload_bytes_total",
			Help: "Total bytes of file attachments written to disk",
		},
	)
)
