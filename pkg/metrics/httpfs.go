package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nucleus/httpfs/internal/connector/httpfs"
)

// httpfsMetrics is the Prometheus implementation of httpfs.Metrics.
type httpfsMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	redirectsTotal    prometheus.Counter
	bytesTransferred  *prometheus.CounterVec
}

// NewHTTPFSMetrics creates gateway metrics on the global registry.
//
// Returns nil if metrics are not enabled, which makes the client keep its
// no-op implementation.
func NewHTTPFSMetrics() httpfs.Metrics {
	if !IsEnabled() {
		return nil
	}
	return NewHTTPFSMetricsWith(GetRegistry())
}

// NewHTTPFSMetricsWith creates gateway metrics registered on reg.
func NewHTTPFSMetricsWith(reg prometheus.Registerer) httpfs.Metrics {
	return &httpfsMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpfs_operations_total",
				Help: "Total number of gateway operations by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "httpfs_operation_duration_seconds",
				Help: "Duration of gateway operations in seconds, including redirect hops",
				Buckets: []float64{
					0.005, // 5ms
					0.01,  // 10ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.5,   // 500ms
					1.0,   // 1s
					5.0,   // 5s
					30.0,  // 30s
				},
			},
			[]string{"operation"},
		),
		redirectsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "httpfs_create_redirects_total",
				Help: "Total number of 307 redirects followed while creating files",
			},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpfs_bytes_transferred_total",
				Help: "Total payload bytes read from or written to the gateway",
			},
			[]string{"direction"}, // read or write
		),
	}
}

func (m *httpfsMetrics) ObserveOperation(op httpfs.Op, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = string(httpfs.KindOf(err))
		if status == "" {
			status = "error"
		}
	}
	m.operationsTotal.WithLabelValues(string(op), status).Inc()
	m.operationDuration.WithLabelValues(string(op)).Observe(duration.Seconds())
}

func (m *httpfsMetrics) RecordRedirect() {
	m.redirectsTotal.Inc()
}

func (m *httpfsMetrics) RecordBytes(direction string, bytes int64) {
	if bytes <= 0 {
		return
	}
	m.bytesTransferred.WithLabelValues(direction).Add(float64(bytes))
}
