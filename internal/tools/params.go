package tools

import (
	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// AddPaginationParams returns the offset/limit tool options shared by every
// listing tool.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	}
//	opts = append(opts, tools.AddPaginationParams()...)
//	opts = append(opts, /* tool-specific params */...)
//	tool := mcp.NewTool("tool_name", opts...)
func AddPaginationParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items to return per page (optional, default: 10)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of items to skip (optional, for offset-based pagination)"),
		),
	}
}

// StringArg extracts an optional string argument.
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// BoolArg extracts an optional boolean argument.
func BoolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// IntArg extracts an optional integer argument. JSON numbers arrive as
// float64, so both representations are accepted.
func IntArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// PageOptionsFromArgs extracts offset/limit pagination arguments. Missing
// values are left zero; the paginator applies its own defaults and clamps.
func PageOptionsFromArgs(args map[string]any) format.PageOptions {
	return format.PageOptions{
		Offset: IntArg(args, "offset", 0),
		Limit:  IntArg(args, "limit", 0),
	}
}
