package execution

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools"
)

// RegisterExecutionTools registers the execution tools with the MCP server.
func RegisterExecutionTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_executions tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List workflow executions with optional filters"),
	}
	listOpts = append(listOpts, tools.AddPaginationParams()...)
	listOpts = append(listOpts,
		mcp.WithString("workflowId",
			mcp.Description("Filter by workflow ID (optional)"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by execution status: success, error, waiting, canceled, running (optional)"),
		),
	)
	listTool := mcp.NewTool("list_executions", listOpts...)

	s.AddTool(listTool, tools.WrapWithInstrumentation("list_executions", handleListExecutions, sc))

	// get_execution tool
	getOpts := []mcp.ToolOption{
		mcp.WithDescription("Get a single execution by ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Execution ID"),
		),
		mcp.WithBoolean("includeData",
			mcp.Description("Include the full run data payload (optional, can be large)"),
		),
	}
	getTool := mcp.NewTool("get_execution", getOpts...)

	s.AddTool(getTool, tools.WrapWithInstrumentation("get_execution", handleGetExecution, sc))

	return nil
}
