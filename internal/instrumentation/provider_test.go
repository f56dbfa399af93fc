package instrumentation

import (
	"context"
	"testing"
)

func TestNewProviderDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if provider.Enabled() {
		t.Error("disabled config must yield a disabled provider")
	}
	if provider.Metrics() != nil {
		t.Error("disabled provider should have no metrics recorder")
	}

	// Meter and Tracer fall back to globals and never panic.
	_ = provider.Meter()
	_ = provider.Tracer()

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown on disabled provider: %v", err)
	}
}

func TestNewProviderStdoutExporters(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "0.0.1",
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "stdout",
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("provider should be enabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("enabled provider must expose a metrics recorder")
	}
}

func TestNewProviderRejectsUnknownExporters(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProvider(ctx, Config{Enabled: true, MetricsExporter: "bogus"}); err == nil {
		t.Error("unknown metrics exporter should be rejected")
	}

	if _, err := NewProvider(ctx, Config{
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "bogus",
	}); err == nil {
		t.Error("unknown tracing exporter should be rejected")
	}
}

func TestProviderShutdownIdempotent(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("first Shutdown: %v", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}
