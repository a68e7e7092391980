package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Image storage metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Upload outcomes by terminal stage
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Total uploads by terminal stage and status",
		},
		[]string{"stage", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes of accepted uploads",
		},
		[]string{"mime_type"},
	)

	// Files written to storage whose metadata insert failed
	OrphanedFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "orphaned_files_total",
			Help:      "Stored files left without a metadata record",
		},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_storage",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "image_storage",
			Subsystem: "storage",
			Name:      "duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"backend", "operation"},
	)

	// 1 when uploads are verified by decoding, 0 in extension-trust mode
	ContentSniffingEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "image_storage",
			Subsystem: "api",
			Name:      "content_sniffing_enabled",
			Help:      "Whether uploaded bytes are verified by decoding",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records the terminal stage of an upload
func RecordUpload(stage, status, mimeType string, bytes int64) {
	UploadsTotal.WithLabelValues(stage, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(mimeType).Add(float64(bytes))
	}
}

// RecordOrphanedFile counts a stored file without metadata
func RecordOrphanedFile() {
	OrphanedFilesTotal.Inc()
}

// RecordStorageOperation records a storage backend call
func RecordStorageOperation(backend, operation string, err error, durationSec float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	StorageDuration.WithLabelValues(backend, operation).Observe(durationSec)
}

// SetContentSniffing flags the sniffer mode chosen at startup
func SetContentSniffing(enabled bool) {
	if enabled {
		ContentSniffingEnabled.Set(1)
		return
	}
	ContentSniffingEnabled.Set(0)
}
