package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// Clear any ambient configuration so defaults are observable.
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"INSTRUMENTATION_ENABLED",
		"METRICS_EXPORTER",
		"TRACING_EXPORTER",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_TRACES_SAMPLER_ARG",
		"PROMETHEUS_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "n8n-mcp-server" {
		t.Errorf("ServiceName = %q, want n8n-mcp-server", config.ServiceName)
	}
	if config.Enabled {
		t.Error("instrumentation should be disabled by default")
	}
	if config.MetricsExporter != "prometheus" {
		t.Errorf("MetricsExporter = %q, want prometheus", config.MetricsExporter)
	}
	if config.TracingExporter != "none" {
		t.Errorf("TracingExporter = %q, want none", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %v, want 0.1", config.TraceSamplingRate)
	}
	if config.PrometheusEndpoint != "/metrics" {
		t.Errorf("PrometheusEndpoint = %q, want /metrics", config.PrometheusEndpoint)
	}
}

func TestDefaultConfigFromEnvironment(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "custom-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "otlp")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	if config.ServiceName != "custom-service" {
		t.Errorf("ServiceName = %q, want custom-service", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("Enabled should honor INSTRUMENTATION_ENABLED=true")
	}
	if config.MetricsExporter != "otlp" {
		t.Errorf("MetricsExporter = %q, want otlp", config.MetricsExporter)
	}
	if config.TracingExporter != "stdout" {
		t.Errorf("TracingExporter = %q, want stdout", config.TracingExporter)
	}
	if config.OTLPEndpoint != "http://localhost:4318" {
		t.Errorf("OTLPEndpoint = %q, want http://localhost:4318", config.OTLPEndpoint)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %v, want 0.5", config.TraceSamplingRate)
	}
}

func TestDefaultConfigInvalidEnvironmentValues(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "not-a-bool")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-float")

	config := DefaultConfig()

	if config.Enabled {
		t.Error("unparseable INSTRUMENTATION_ENABLED should fall back to false")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("unparseable sampler arg should fall back to 0.1, got %v", config.TraceSamplingRate)
	}
}
