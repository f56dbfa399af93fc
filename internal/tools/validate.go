package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/atmaker/n8n-mcp-server/internal/n8n"
)

// validExecutionStatuses is the fixed status vocabulary accepted by the n8n
// executions API.
var validExecutionStatuses = []string{
	n8n.ExecutionStatusSuccess,
	n8n.ExecutionStatusError,
	n8n.ExecutionStatusWaiting,
	n8n.ExecutionStatusCanceled,
	n8n.ExecutionStatusRunning,
}

// ValidateExecutionStatus checks an execution status filter before it is
// forwarded upstream. Returns an error result if the status is unknown, nil
// if the status is valid or empty.
//
// This centralizes the status check to avoid duplicating it across every
// handler that filters executions.
func ValidateExecutionStatus(status string) *mcp.CallToolResult {
	if status == "" {
		return nil
	}

	for _, valid := range validExecutionStatuses {
		if status == valid {
			return nil
		}
	}

	return mcp.NewToolResultError(fmt.Sprintf(
		"%s is not a valid execution status (valid values: %s)",
		cases.Title(language.English).String(status),
		strings.Join(validExecutionStatuses, ", "),
	))
}
