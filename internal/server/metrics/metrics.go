// Package metrics provides Prometheus metrics for the StoreIt server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// File command metrics
	fileOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeit_file_operations_total",
			Help: "Total number of file operations by outcome",
		},
		[]string{"op", "status"},
	)

	uploadedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storeit_uploaded_bytes_total",
			Help: "Total bytes stored through successful uploads",
		},
	)

	compensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeit_upload_compensations_total",
			Help: "Compensating object deletions after a failed document write",
		},
		[]string{"status"},
	)

	orphanedObjectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storeit_orphaned_objects_total",
			Help: "Objects left in the bucket without a document",
		},
	)

	sweptObjectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeit_sweeper_objects_total",
			Help: "Pending uploads processed by the sweeper",
		},
		[]string{"result"},
	)

	// gRPC metrics
	grpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storeit_grpc_request_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)

	// Revalidation stream metrics
	sseConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storeit_sse_connections_active",
			Help: "Number of open revalidation streams",
		},
	)

	revalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storeit_revalidations_total",
			Help: "Revalidation signals published",
		},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFileOperation counts one command layer call.
func RecordFileOperation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	fileOperationsTotal.WithLabelValues(op, status).Inc()
}

func RecordUploadedBytes(n int64) {
	uploadedBytes.Add(float64(n))
}

func RecordCompensation(success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	compensationsTotal.WithLabelValues(status).Inc()
}

func RecordOrphanedObject() {
	orphanedObjectsTotal.Inc()
}

// RecordSweep counts one processed pending upload. result is one of
// "deleted", "referenced" or "error".
func RecordSweep(result string) {
	sweptObjectsTotal.WithLabelValues(result).Inc()
}

func RecordGRPCRequest(method, code string, duration time.Duration) {
	grpcRequestDuration.WithLabelValues(method, code).Observe(duration.Seconds())
}

func SetSSEConnectionsActive(count int64) {
	sseConnectionsActive.Set(float64(count))
}

func RecordRevalidation() {
	revalidationsTotal.Inc()
}
