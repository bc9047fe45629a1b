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

	// Business metrics
	DatasetRecordsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records_total",
			Help: "Number of enriched trip records in the resident dataset",
		},
		[]string{"service", "version"},
	)

	DatasetDroppedGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_dropped_records_total",
			Help: "Number of raw records dropped during the last cleaning pass",
		},
		[]string{"service", "version"},
	)

	DatasetRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_refresh_total",
			Help: "Total number of dataset refresh attempts",
		},
		[]string{"service", "status"},
	)

	DatasetRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_refresh_duration_seconds",
			Help:    "Dataset refresh duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service"},
	)

	ViewComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_view_compute_duration_seconds",
			Help:    "Filter+aggregate+KPI recomputation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatasetRefresh records one refresh attempt
func RecordDatasetRefresh(service string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatasetRefreshTotal.WithLabelValues(service, status).Inc()
	DatasetRefreshDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordDatasetSize publishes record/dropped gauges for the resident dataset
func RecordDatasetSize(service, version string, records, dropped int) {
	DatasetRecordsGauge.WithLabelValues(service, version).Set(float64(records))
	DatasetDroppedGauge.WithLabelValues(service, version).Set(float64(dropped))
}

// RecordViewCompute records one filter→aggregate→KPI pass
func RecordViewCompute(service string, duration time.Duration) {
	ViewComputeDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}
