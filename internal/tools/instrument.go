package tools

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/logging"
	"github.com/atmaker/n8n-mcp-server/internal/server"
)

// WrapWithInstrumentation wraps a tool handler with a per-invocation span
// and structured timing logs. The wrapper captures:
//   - Tool invocation timing
//   - Success/error status from the handler result
//   - OpenTelemetry trace context for correlation
//
// Spans go through the global tracer provider, so the wrapper costs a noop
// span when instrumentation is disabled.
func WrapWithInstrumentation(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		result, err := handler(ctx, request, sc)
		duration := time.Since(start)

		switch {
		case err != nil:
			instrumentation.SetSpanError(span, err)
			sc.Logger().Error("tool invocation failed",
				logging.Tool(toolName),
				logging.Duration(duration),
				logging.SanitizedErr(err),
			)
		case result != nil && result.IsError:
			// MCP tool errors travel in the result, not as Go errors.
			instrumentation.SetSpanError(span, errors.New(firstResultText(result)))
			sc.Logger().Warn("tool returned error result",
				logging.Tool(toolName),
				logging.Duration(duration),
				logging.Status(instrumentation.StatusError),
			)
		default:
			instrumentation.SetSpanSuccess(span)
			sc.Logger().Debug("tool invocation completed",
				logging.Tool(toolName),
				logging.Duration(duration),
				logging.Status(instrumentation.StatusSuccess),
			)
		}

		return result, err
	}
}

// firstResultText pulls the message out of an error result's first text
// content item.
func firstResultText(result *mcp.CallToolResult) string {
	if len(result.Content) > 0 {
		if textContent, ok := result.Content[0].(mcp.TextContent); ok {
			return textContent.Text
		}
	}
	return "tool error"
}
