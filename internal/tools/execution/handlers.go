package execution

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/logging"
	"github.com/atmaker/n8n-mcp-server/internal/n8n"
	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools"
	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

const (
	// upstreamPageSize is the page size requested from n8n while collecting
	// executions for a listing.
	upstreamPageSize = 100

	// maxUpstreamPages bounds the upstream cursor walk. Execution histories
	// grow without bound, so listings only ever surface the most recent
	// pages and point callers at filters for the rest.
	maxUpstreamPages = 10
)

// listExecutionsResult is the payload shape returned by list_executions.
type listExecutionsResult struct {
	Executions []n8n.Execution `json:"executions"`
	Window     format.Window   `json:"window"`
}

// handleListExecutions handles the list_executions tool.
func handleListExecutions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	status := tools.StringArg(args, "status")
	if result := tools.ValidateExecutionStatus(status); result != nil {
		return result, nil
	}

	opts := n8n.ListExecutionsOptions{
		WorkflowID: tools.StringArg(args, "workflowId"),
		Status:     status,
	}

	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithWorkflow(opts.WorkflowID).Build()...,
	)

	executions, exhausted, err := collectExecutions(ctx, sc.N8nClient(), opts)
	if err != nil {
		return tools.RespondError(ctx, sc, "list_executions", fmt.Errorf("failed to list executions: %w", err)), nil
	}

	page, window := format.Paginate(executions, tools.PageOptionsFromArgs(args))

	sc.Logger().Debug("listed executions",
		logging.Operation(instrumentation.OperationListExecutions),
		logging.WorkflowID(opts.WorkflowID),
		logging.FragmentCount(len(page)),
	)

	message := fmt.Sprintf("Showing %d of %d executions", len(page), window.Total)
	if !exhausted {
		message += fmt.Sprintf(" (most recent %d pages; filter by workflowId or status to narrow)", maxUpstreamPages)
	}

	payload := listExecutionsResult{Executions: page, Window: window}
	return tools.Respond(ctx, sc, "list_executions", payload, format.Options{Message: message}), nil
}

// handleGetExecution handles the get_execution tool.
func handleGetExecution(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id := tools.StringArg(args, "id")
	if id == "" {
		return mcp.NewToolResultError("execution ID is required"), nil
	}
	includeData := tools.BoolArg(args, "includeData")

	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithExecution(id).Build()...,
	)

	execution, err := sc.N8nClient().GetExecution(ctx, id, includeData)
	if err != nil {
		if errors.Is(err, n8n.ErrNotFound) {
			return tools.RespondError(ctx, sc, "get_execution", fmt.Sprintf("execution %q not found", id)), nil
		}
		return tools.RespondError(ctx, sc, "get_execution", fmt.Errorf("failed to get execution %s: %w", id, err)), nil
	}

	// Run data payloads routinely exceed the response budget; the formatter
	// truncates or chunks them as needed.
	return tools.Respond(ctx, sc, "get_execution", n8n.RedactExecution(execution), format.Options{}), nil
}

// collectExecutions walks the upstream cursor chain and gathers executions
// for local pagination. The second return value reports whether the chain
// was fully consumed within the page cap.
func collectExecutions(ctx context.Context, client n8n.Client, opts n8n.ListExecutionsOptions) ([]n8n.Execution, bool, error) {
	opts.Limit = upstreamPageSize

	var executions []n8n.Execution
	for page := 0; page < maxUpstreamPages; page++ {
		list, err := client.ListExecutions(ctx, opts)
		if err != nil {
			return nil, false, err
		}

		executions = append(executions, list.Data...)
		if list.NextCursor == "" {
			return executions, true, nil
		}
		opts.Cursor = list.NextCursor
	}

	return executions, false, nil
}
