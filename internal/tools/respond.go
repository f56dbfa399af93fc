package tools

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// Respond shapes a value through the server's formatter and converts the
// resulting fragments into an MCP tool result, one text content item per
// fragment in order. Shaping metrics and span attributes are recorded as a
// side effect.
func Respond(ctx context.Context, sc *server.ServerContext, toolName string, v any, opts format.Options) *mcp.CallToolResult {
	start := time.Now()
	fragments := sc.Formatter().Format(v, opts)
	recordFormatResult(ctx, sc, toolName, fragments, time.Since(start))
	return resultFromFragments(fragments)
}

// RespondError formats an error value into a single error result and records
// it with the error_response outcome.
func RespondError(ctx context.Context, sc *server.ServerContext, toolName string, err any) *mcp.CallToolResult {
	start := time.Now()
	fragments := []format.Fragment{sc.Formatter().FormatError(err)}
	recordFormatResult(ctx, sc, toolName, fragments, time.Since(start))
	return resultFromFragments(fragments)
}

func resultFromFragments(fragments []format.Fragment) *mcp.CallToolResult {
	content := make([]mcp.Content, len(fragments))
	for i, frag := range fragments {
		content[i] = mcp.TextContent{
			Type: "text",
			Text: frag.WireText(),
		}
	}

	result := &mcp.CallToolResult{Content: content}
	if len(fragments) > 0 && fragments[0].IsError {
		result.IsError = true
	}
	return result
}

// recordFormatResult records the shaping outcome on both the metrics pipeline
// and the active span. It is safe to call with instrumentation disabled.
func recordFormatResult(ctx context.Context, sc *server.ServerContext, toolName string, fragments []format.Fragment, duration time.Duration) {
	outcome := classifyOutcome(fragments)
	payloadBytes := 0
	for _, frag := range fragments {
		payloadBytes += len(frag.Text)
	}
	truncated := outcome == instrumentation.OutcomeTruncated || (outcome == instrumentation.OutcomeChunked && wasTruncated(fragments))

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
		WithFormatResult(outcome, len(fragments), payloadBytes, truncated).
		Build()...)

	provider := sc.InstrumentationProvider()
	if provider == nil || provider.Metrics() == nil {
		return
	}
	metrics := provider.Metrics()

	metrics.RecordFormatOperation(ctx, toolName, outcome, len(fragments), payloadBytes, duration)
	if truncated {
		metrics.RecordTruncation(ctx, truncationReason(fragments))
	}
}

// classifyOutcome collapses a fragment list into the fixed outcome
// vocabulary used as a metric label.
func classifyOutcome(fragments []format.Fragment) string {
	if len(fragments) == 0 {
		return instrumentation.StatusUnknown
	}
	if fragments[0].IsError {
		return instrumentation.OutcomeErrorResp
	}
	if fragments[0].IsChunked {
		return instrumentation.OutcomeChunked
	}
	if wasTruncated(fragments) {
		return instrumentation.OutcomeTruncated
	}
	return instrumentation.OutcomeSingle
}

func wasTruncated(fragments []format.Fragment) bool {
	for _, frag := range fragments {
		if frag.Truncation != nil && frag.Truncation.WasTruncated {
			return true
		}
	}
	return false
}

// truncationReason maps the truncation record's free-text reason onto the
// small label vocabulary expected by the truncation counter.
func truncationReason(fragments []format.Fragment) string {
	for _, frag := range fragments {
		if frag.Truncation == nil {
			continue
		}
		switch {
		case strings.HasPrefix(frag.Truncation.Reason, "Array size"):
			return "max_array_items"
		case strings.HasPrefix(frag.Truncation.Reason, "Object depth"):
			return "max_depth"
		}
	}
	return "other"
}
