package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_order_operations_total",
			Help: "Total number of order, payment and support operations",
		},
		[]string{"operation", "status"},
	)

	suspiciousRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_suspicious_requests_total",
			Help: "Requests whose query string matched an injection pattern set",
		},
		[]string{"kind"},
	)
)

// RecordOperation counts a business operation such as checkout or payment.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

func RecordSuspicious(kind string) {
	suspiciousRequests.WithLabelValues(kind).Inc()
}
