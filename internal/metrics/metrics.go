package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// Geocoder metrics
	GeocodeRequestsTotal   *prometheus.CounterVec
	GeocodeDurationSeconds prometheus.Histogram

	// Recommendation metrics
	RecommendationsTotal *prometheus.CounterVec
	PoolSizeObserved     prometheus.Histogram

	// Session metrics
	SessionOpsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "twstore_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"event_type"}, // event_type: message, postback, follow
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "twstore_webhook_requests_total",
				Help: "Total number of webhook requests by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error
		),

		GeocodeRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "twstore_geocode_requests_total",
				Help: "Total number of reverse geocoding lookups by outcome",
			},
			[]string{"status"}, // status: resolved, no_match, error
		),

		GeocodeDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "twstore_geocode_duration_seconds",
				Help:    "Reverse geocoding lookup duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		),

		RecommendationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "twstore_recommendations_total",
				Help: "Total number of recommendation sets served by mode",
			},
			[]string{"mode"}, // mode: category, nearby
		),

		PoolSizeObserved: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "twstore_recommendation_pool_size",
				Help:    "Number of candidate businesses per recommendation request",
				Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100},
			},
		),

		SessionOpsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "twstore_session_ops_total",
				Help: "Total number of session store operations by op and status",
			},
			[]string{"op", "status"}, // op: get, set, delete
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "twstore_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: invalid_signature, timeout, etc.
		),
	}

	return m
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordGeocode records a reverse geocoding lookup
func (m *Metrics) RecordGeocode(status string, duration float64) {
	m.GeocodeRequestsTotal.WithLabelValues(status).Inc()
	m.GeocodeDurationSeconds.Observe(duration)
}

// RecordRecommendation records a served recommendation set
func (m *Metrics) RecordRecommendation(mode string, poolSize int) {
	m.RecommendationsTotal.WithLabelValues(mode).Inc()
	m.PoolSizeObserved.Observe(float64(poolSize))
}

// RecordSessionOp records a session store operation
func (m *Metrics) RecordSessionOp(op, status string) {
	m.SessionOpsTotal.WithLabelValues(op, status).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
