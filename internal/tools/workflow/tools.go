package workflow

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools"
)

// RegisterWorkflowTools registers the workflow tools with the MCP server.
func RegisterWorkflowTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_workflows tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List workflows from the n8n instance with optional filters"),
	}
	listOpts = append(listOpts, tools.AddPaginationParams()...)
	listOpts = append(listOpts,
		mcp.WithBoolean("active",
			mcp.Description("Filter by active state (optional)"),
		),
		mcp.WithString("name",
			mcp.Description("Filter by workflow name (optional)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tag names to filter by (optional)"),
		),
	)
	listTool := mcp.NewTool("list_workflows", listOpts...)

	s.AddTool(listTool, tools.WrapWithInstrumentation("list_workflows", handleListWorkflows, sc))

	// get_workflow tool
	getOpts := []mcp.ToolOption{
		mcp.WithDescription("Get a workflow by ID, including its nodes and connections"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Workflow ID"),
		),
	}
	getTool := mcp.NewTool("get_workflow", getOpts...)

	s.AddTool(getTool, tools.WrapWithInstrumentation("get_workflow", handleGetWorkflow, sc))

	return nil
}
