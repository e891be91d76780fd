package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Backend (collaborator API) metrics
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests sent to the CarPool backend",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "CarPool backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Business metrics
	DriverLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "driver_lookup_failures_total",
			Help: "Driver detail lookups that fell back to embedded data or left the driver unresolved",
		},
	)

	PaymentsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payments_loaded",
			Help: "Number of payment records in the current overview snapshot",
		},
	)

	PendingAmount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payments_pending_amount",
			Help: "Sum of pending payment amounts in the current overview snapshot",
		},
	)

	StaleLoadsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_loads_discarded_total",
			Help: "Payment overview loads discarded because a newer load superseded them",
		},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciliations_total",
			Help: "Driver payment reconciliations by outcome",
		},
		[]string{"status"},
	)

	PaymentsMarkedPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_marked_paid_total",
			Help: "Payments transitioned to paid by reconciliation",
		},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "exchange", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordBackendRequest records a call to the CarPool backend
func RecordBackendRequest(operation string, err error, duration time.Duration) {
	BackendRequestsTotal.WithLabelValues(operation, outcome(err)).Inc()
	BackendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordReconciliation records the outcome of a reconciliation run
func RecordReconciliation(status string, marked int) {
	ReconciliationsTotal.WithLabelValues(status).Inc()
	PaymentsMarkedPaid.Add(float64(marked))
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, exchange, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
