package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	// Verify all metric fields are initialized
	if m.WebhookDurationSeconds == nil {
		t.Error("WebhookDurationSeconds is nil")
	}
	if m.WebhookRequestsTotal == nil {
		t.Error("WebhookRequestsTotal is nil")
	}
	if m.GeocodeRequestsTotal == nil {
		t.Error("GeocodeRequestsTotal is nil")
	}
	if m.GeocodeDurationSeconds == nil {
		t.Error("GeocodeDurationSeconds is nil")
	}
	if m.RecommendationsTotal == nil {
		t.Error("RecommendationsTotal is nil")
	}
	if m.PoolSizeObserved == nil {
		t.Error("PoolSizeObserved is nil")
	}
	if m.SessionOpsTotal == nil {
		t.Error("SessionOpsTotal is nil")
	}
	if m.HTTPErrorsTotal == nil {
		t.Error("HTTPErrorsTotal is nil")
	}
}

func TestRecordWebhook(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordWebhook("message", "success", 0.5)
	m.RecordWebhook("postback", "error", 1.0)
	m.RecordWebhook("follow", "success", 0.1)
}

func TestRecordGeocode(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordGeocode("resolved", 0.3)
	m.RecordGeocode("no_match", 0.2)
	m.RecordGeocode("error", 5.0)
}

func TestRecordRecommendation(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordRecommendation("category", 12)
	m.RecordRecommendation("nearby", 0)
}

func TestRecordSessionOp(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordSessionOp("get", "hit")
	m.RecordSessionOp("get", "miss")
	m.RecordSessionOp("set", "success")
	m.RecordSessionOp("delete", "success")
}

func TestRecordHTTPError(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordHTTPError("invalid_signature", "webhook")
	m.RecordHTTPError("timeout", "geocode")
}

func TestMetricsGather(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordWebhook("message", "success", 0.5)
	m.RecordGeocode("resolved", 0.3)
	m.RecordRecommendation("category", 5)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Error("No metrics were gathered")
	}

	expectedMetrics := map[string]bool{
		"twstore_webhook_requests_total":   false,
		"twstore_webhook_duration_seconds": false,
		"twstore_geocode_requests_total":   false,
		"twstore_recommendations_total":    false,
		"twstore_recommendation_pool_size": false,
	}
	for _, mf := range metricFamilies {
		if _, ok := expectedMetrics[mf.GetName()]; ok {
			expectedMetrics[mf.GetName()] = true
		}
	}
	for name, found := range expectedMetrics {
		if !found {
			t.Errorf("Expected metric %q not found", name)
		}
	}
}
