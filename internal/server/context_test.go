package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmaker/n8n-mcp-server/internal/n8n"
	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// stubN8nClient is a minimal n8n.Client for wiring tests.
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

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.NotNil(t, sc.N8nClient())
	assert.NotNil(t, sc.Logger())
	assert.NotNil(t, sc.Config())
	assert.NotNil(t, sc.Formatter())
	assert.Equal(t, "n8n-mcp-server", sc.Config().ServerName)
}

func TestNewServerContextRequiresClient(t *testing.T) {
	_, err := NewServerContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingN8nClient)
}

func TestNewServerContextOptions(t *testing.T) {
	limits := format.Limits{
		MaxResponseSize: 2000,
		MaxArrayItems:   5,
		MaxObjectDepth:  2,
		MaxChunkSize:    1000,
	}

	sc, err := NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
		WithServerName("custom-name"),
		WithVersion("1.2.3"),
		WithLogLevel("debug"),
		WithLimits(limits),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Equal(t, "custom-name", sc.Config().ServerName)
	assert.Equal(t, "1.2.3", sc.Config().Version)
	assert.Equal(t, "debug", sc.Config().LogLevel)
	assert.Equal(t, limits, sc.Config().Limits)
}

func TestWithConfigClones(t *testing.T) {
	config := NewDefaultConfig()
	config.ServerName = "original"

	sc, err := NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
		WithConfig(config),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// Mutating the source config must not affect the server context.
	config.ServerName = "mutated"
	assert.Equal(t, "original", sc.Config().ServerName)
}

func TestNilOptionValuesRejected(t *testing.T) {
	_, err := NewServerContext(context.Background(), WithN8nClient(nil))
	assert.ErrorIs(t, err, ErrMissingN8nClient)

	_, err = NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
		WithLogger(nil),
	)
	assert.ErrorIs(t, err, ErrMissingLogger)

	_, err = NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
		WithConfig(nil),
	)
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestShutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
	)
	require.NoError(t, err)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	// Context should be cancelled after shutdown.
	select {
	case <-sc.Context().Done():
	default:
		t.Error("server context should be cancelled after Shutdown")
	}

	// Second shutdown is a no-op.
	assert.NoError(t, sc.Shutdown())
}

func TestFormatterUsesClampedLimits(t *testing.T) {
	sc, err := NewServerContext(context.Background(),
		WithN8nClient(stubN8nClient{}),
		WithLimits(format.Limits{MaxArrayItems: -10}),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// Invalid limits are corrected when the formatter is built, so shaping a
	// small value must still succeed.
	fragments := sc.Formatter().Format([]any{"a", "b"}, format.Options{})
	require.Len(t, fragments, 1)
	assert.False(t, fragments[0].IsError)
}
