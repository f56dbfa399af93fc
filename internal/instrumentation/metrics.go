package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrOutcome   = "outcome"
	attrSizeClass = "size_class"
	attrReason    = "reason"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Response shaping metrics
	formatOperationsTotal  metric.Int64Counter
	formatDuration         metric.Float64Histogram
	formatFragmentsTotal   metric.Int64Counter
	formatTruncationsTotal metric.Int64Counter
	formatResponseBytes    metric.Int64Histogram

	// n8n API metrics
	n8nRequestsTotal   metric.Int64Counter
	n8nRequestDuration metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether the per-tool label is included in
	// response shaping metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether per-tool labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Response Shaping Metrics
	m.formatOperationsTotal, err = meter.Int64Counter(
		"format_operations_total",
		metric.WithDescription("Total number of response formatting operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create format_operations_total counter: %w", err)
	}

	m.formatDuration, err = meter.Float64Histogram(
		"format_operation_duration_seconds",
		metric.WithDescription("Response formatting duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.001, 0.01, 0.1, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create format_operation_duration_seconds histogram: %w", err)
	}

	m.formatFragmentsTotal, err = meter.Int64Counter(
		"format_fragments_total",
		metric.WithDescription("Total number of response fragments emitted"),
		metric.WithUnit("{fragment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create format_fragments_total counter: %w", err)
	}

	m.formatTruncationsTotal, err = meter.Int64Counter(
		"format_truncations_total",
		metric.WithDescription("Total number of truncated responses by reason"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create format_truncations_total counter: %w", err)
	}

	m.formatResponseBytes, err = meter.Int64Histogram(
		"format_response_bytes",
		metric.WithDescription("Serialized response payload size in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1024, 10240, 102400, 512000, 1048576, 5242880),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create format_response_bytes histogram: %w", err)
	}

	// n8n API Metrics
	m.n8nRequestsTotal, err = meter.Int64Counter(
		"n8n_api_requests_total",
		metric.WithDescription("Total number of n8n API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create n8n_api_requests_total counter: %w", err)
	}

	m.n8nRequestDuration, err = meter.Float64Histogram(
		"n8n_api_request_duration_seconds",
		metric.WithDescription("n8n API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create n8n_api_request_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordFormatOperation records a response formatting pass: its outcome
// ("single", "truncated", "chunked" or "error_response"), the number of
// fragments emitted, the serialized payload size, and the duration.
//
// CARDINALITY NOTE: When detailedLabels is false (default), only outcome and
// size_class labels are recorded. When detailedLabels is true, the tool name
// is also included. Tool names are bounded by the registered tool set, so the
// label is safe to enable on any deployment.
func (m *Metrics) RecordFormatOperation(ctx context.Context, tool, outcome string, fragments, payloadBytes int, duration time.Duration) {
	if m.formatOperationsTotal == nil || m.formatDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOutcome, outcome),
		attribute.String(attrSizeClass, ClassifyResponseSize(payloadBytes)),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrTool, tool))
	}

	m.formatOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.formatDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.formatFragmentsTotal.Add(ctx, int64(fragments), metric.WithAttributes(attrs...))
	m.formatResponseBytes.Record(ctx, int64(payloadBytes), metric.WithAttributes(attrs...))
}

// RecordTruncation records a truncated response with the reason reported by
// the truncation pass. Reasons are a small fixed vocabulary, so the label is
// always safe.
func (m *Metrics) RecordTruncation(ctx context.Context, reason string) {
	if m.formatTruncationsTotal == nil {
		return // Instrumentation not initialized
	}

	m.formatTruncationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrReason, reason),
	))
}

// RecordN8nRequest records an n8n REST API call with operation type, HTTP
// status class, and duration.
//
// CARDINALITY NOTE: The raw status code is collapsed into its class ("2xx",
// "4xx", ...) so a misbehaving instance cannot mint unbounded label values.
func (m *Metrics) RecordN8nRequest(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	if m.n8nRequestsTotal == nil || m.n8nRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, ClassifyStatusCode(statusCode)),
	}

	m.n8nRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.n8nRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
