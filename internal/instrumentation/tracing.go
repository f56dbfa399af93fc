package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the n8n-mcp-server package.
const TracerName = "github.com/atmaker/n8n-mcp-server"

// Span attribute keys for MCP and n8n operations.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrOutcome is the formatting outcome (single, truncated, chunked).
	SpanAttrOutcome = "mcp.outcome"

	// SpanAttrFragments is the number of response fragments emitted.
	SpanAttrFragments = "mcp.fragments"

	// SpanAttrResponseBytes is the serialized response payload size.
	SpanAttrResponseBytes = "mcp.response_bytes"

	// SpanAttrTruncated indicates whether the response was truncated.
	SpanAttrTruncated = "mcp.truncated"

	// SpanAttrOperation is the n8n API operation type.
	SpanAttrOperation = "n8n.operation"

	// SpanAttrWorkflowID is the n8n workflow ID.
	SpanAttrWorkflowID = "n8n.workflow_id"

	// SpanAttrExecutionID is the n8n execution ID.
	SpanAttrExecutionID = "n8n.execution_id"

	// SpanAttrStatusClass is the upstream HTTP status class.
	SpanAttrStatusClass = "n8n.status_class"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming and cardinality controls.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithOperation adds the n8n operation type attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithWorkflow adds the workflow ID attribute when set.
func (b *SpanAttributeBuilder) WithWorkflow(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrWorkflowID, id))
	}
	return b
}

// WithExecution adds the execution ID attribute when set.
func (b *SpanAttributeBuilder) WithExecution(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrExecutionID, id))
	}
	return b
}

// WithFormatResult adds the formatting outcome attributes.
func (b *SpanAttributeBuilder) WithFormatResult(outcome string, fragments, payloadBytes int, truncated bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrOutcome, outcome),
		attribute.Int(SpanAttrFragments, fragments),
		attribute.Int(SpanAttrResponseBytes, payloadBytes),
		attribute.Bool(SpanAttrTruncated, truncated),
	)
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// Returns the context with the span and the span itself.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartN8nSpan starts a span for n8n REST API operations.
// Includes the operation type and optional resource IDs.
func StartN8nSpan(ctx context.Context, operation, workflowID, executionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+3)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	if workflowID != "" {
		allAttrs = append(allAttrs, attribute.String(SpanAttrWorkflowID, workflowID))
	}
	if executionID != "" {
		allAttrs = append(allAttrs, attribute.String(SpanAttrExecutionID, executionID))
	}
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "n8n."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the current span in context.
// Returns empty string if no valid span is present.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// SpanContextString returns a human-readable trace context string.
// Format: "trace_id=X span_id=Y" or empty string if no valid context.
func SpanContextString(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
}
