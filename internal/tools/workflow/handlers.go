package workflow

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
	// workflows for a listing. n8n caps limits at 250 server-side.
	upstreamPageSize = 100

	// maxUpstreamPages bounds how far a listing walks the upstream cursor
	// chain, so a huge instance cannot stall a tool call.
	maxUpstreamPages = 10
)

// listWorkflowsResult is the payload shape returned by list_workflows.
type listWorkflowsResult struct {
	Workflows []n8n.Workflow `json:"workflows"`
	Window    format.Window  `json:"window"`
}

// handleListWorkflows handles the list_workflows tool.
func handleListWorkflows(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	opts := n8n.ListWorkflowsOptions{
		Name: tools.StringArg(args, "name"),
		Tags: tools.StringArg(args, "tags"),
	}
	if active, ok := args["active"].(bool); ok {
		opts.Active = &active
	}

	workflows, exhausted, err := collectWorkflows(ctx, sc.N8nClient(), opts)
	if err != nil {
		return tools.RespondError(ctx, sc, "list_workflows", fmt.Errorf("failed to list workflows: %w", err)), nil
	}

	page, window := format.Paginate(workflows, tools.PageOptionsFromArgs(args))

	sc.Logger().Debug("listed workflows",
		logging.Operation(instrumentation.OperationListWorkflows),
		logging.FragmentCount(len(page)),
	)

	message := fmt.Sprintf("Showing %d of %d workflows", len(page), window.Total)
	if !exhausted {
		message += fmt.Sprintf(" (first %d pages of a larger instance; narrow the filters to see the rest)", maxUpstreamPages)
	}

	payload := listWorkflowsResult{Workflows: n8n.RedactWorkflows(page), Window: window}
	return tools.Respond(ctx, sc, "list_workflows", payload, format.Options{Message: message}), nil
}

// handleGetWorkflow handles the get_workflow tool.
func handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id := tools.StringArg(args, "id")
	if id == "" {
		return mcp.NewToolResultError("workflow ID is required"), nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithWorkflow(id).Build()...,
	)

	workflow, err := sc.N8nClient().GetWorkflow(ctx, id)
	if err != nil {
		if errors.Is(err, n8n.ErrNotFound) {
			return tools.RespondError(ctx, sc, "get_workflow", fmt.Sprintf("workflow %q not found", id)), nil
		}
		return tools.RespondError(ctx, sc, "get_workflow", fmt.Errorf("failed to get workflow %s: %w", id, err)), nil
	}

	return tools.Respond(ctx, sc, "get_workflow", n8n.RedactWorkflow(workflow), format.Options{}), nil
}

// collectWorkflows walks the upstream cursor chain and gathers workflows for
// local pagination. The second return value reports whether the chain was
// fully consumed within the page cap.
func collectWorkflows(ctx context.Context, client n8n.Client, opts n8n.ListWorkflowsOptions) ([]n8n.Workflow, bool, error) {
	opts.Limit = upstreamPageSize

	var workflows []n8n.Workflow
	for page := 0; page < maxUpstreamPages; page++ {
		list, err := client.ListWorkflows(ctx, opts)
		if err != nil {
			return nil, false, err
		}

		workflows = append(workflows, list.Data...)
		if list.NextCursor == "" {
			return workflows, true, nil
		}
		opts.Cursor = list.NextCursor
	}

	return workflows, false, nil
}
