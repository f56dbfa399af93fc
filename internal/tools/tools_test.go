package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atmaker/n8n-mcp-server/internal/n8n"
	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// stubN8nClient is a canned n8n.Client for handler tests.
type stubN8nClient struct{}

func (stubN8nClient) ListWorkflows(ctx context.Context, opts n8n.ListWorkflowsOptions) (*n8n.WorkflowList, error) {
	return &n8n.WorkflowList{}, nil
}

func (stubN8nClient) GetWorkflow(ctx context.Context, id string) (*n8n.Workflow, error) {
	return &n8n.Workflow{ID: id}, nil
}

func (stubN8nClient) ListExecutions(ctx context.Context, opts n8n.ListExecutionsOptions) (*n8n.ExecutionList, error) {
	return &n8n.ExecutionList{}, nil
}

func (stubN8nClient) GetExecution(ctx context.Context, id string, includeData bool) (*n8n.Execution, error) {
	return &n8n.Execution{ID: id}, nil
}

// newToolTestContext builds a ServerContext with the given limits for
// exercising response shaping paths.
func newToolTestContext(t *testing.T, limits format.Limits) *server.ServerContext {
	t.Helper()

	opts := []server.Option{server.WithN8nClient(stubN8nClient{})}
	if limits != (format.Limits{}) {
		opts = append(opts, server.WithLimits(limits))
	}

	sc, err := server.NewServerContext(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}
