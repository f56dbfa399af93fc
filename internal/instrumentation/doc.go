// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the n8n MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, response shaping, and n8n API calls
//   - Distributed tracing for tool invocations and n8n REST calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Response Shaping Metrics:
//   - format_operations_total: Counter of formatting passes by outcome and size class
//   - format_operation_duration_seconds: Histogram of formatting durations
//   - format_fragments_total: Counter of emitted response fragments
//   - format_truncations_total: Counter of truncated responses by reason
//   - format_response_bytes: Histogram of serialized response payload sizes
//
// n8n API Metrics:
//   - n8n_api_requests_total: Counter of n8n REST calls by operation and status class
//   - n8n_api_request_duration_seconds: Histogram of n8n REST call durations
//
// # Cardinality Considerations
//
// Labels derived from payloads are classified before recording: payload sizes
// collapse into four size classes and upstream HTTP status codes into their
// hundreds class. Workflow and execution IDs are never used as metric labels;
// they appear only on trace spans.
//
// High cardinality can lead to:
//   - Increased memory usage in metrics backends
//   - Slower query performance
//   - Higher storage costs
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations
//   - n8n REST API calls
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: n8n-mcp-server)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "n8n-mcp-server",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record a formatting pass
//	recorder.RecordFormatOperation(ctx, "list_workflows", "chunked", 4, 180_000, time.Since(start))
package instrumentation
