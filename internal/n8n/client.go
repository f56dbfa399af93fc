package n8n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/logging"
)

// json is the decoder for API responses, the same drop-in jsoniter config
// the response formatter serializes with.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// apiKeyHeader is the header the n8n public API expects the key in.
const apiKeyHeader = "X-N8N-API-KEY"

// DefaultTimeout bounds individual API requests.
const DefaultTimeout = 30 * time.Second

// Client defines the read operations the MCP tools need from an n8n instance.
type Client interface {
	// ListWorkflows returns a page of workflows matching the options.
	ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowList, error)

	// GetWorkflow retrieves a single workflow by ID.
	GetWorkflow(ctx context.Context, id string) (*Workflow, error)

	// ListExecutions returns a page of executions matching the options.
	ListExecutions(ctx context.Context, opts ListExecutionsOptions) (*ExecutionList, error)

	// GetExecution retrieves a single execution by ID. When includeData is
	// true the full run payload is returned, which can be very large.
	GetExecution(ctx context.Context, id string, includeData bool) (*Execution, error)
}

// HTTPClient is the n8n API client backed by net/http.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	// group collapses concurrent identical list requests.
	group singleflight.Group
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying HTTP client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithMetrics enables API request metrics recording.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// NewClient creates a client for the n8n public API at baseURL.
// The base URL should not include the /api/v1 prefix; it is appended here.
func NewClient(baseURL, apiKey string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("n8n base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("n8n API key is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid n8n base URL: %w", err)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListWorkflows implements Client.
func (c *HTTPClient) ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowList, error) {
	query := url.Values{}
	if opts.Active != nil {
		query.Set("active", strconv.FormatBool(*opts.Active))
	}
	if opts.Name != "" {
		query.Set("name", opts.Name)
	}
	if opts.Tags != "" {
		query.Set("tags", opts.Tags)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	path := "/workflows"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	result, err := c.sharedGet(ctx, instrumentation.OperationListWorkflows, path, func(body []byte) (any, error) {
		var list WorkflowList
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decoding workflow list: %w", err)
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*WorkflowList), nil
}

// GetWorkflow implements Client.
func (c *HTTPClient) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	if id == "" {
		return nil, fmt.Errorf("workflow ID is required")
	}

	body, err := c.get(ctx, instrumentation.OperationGetWorkflow, "/workflows/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var wf Workflow
	if err := json.Unmarshal(body, &wf); err != nil {
		return nil, fmt.Errorf("decoding workflow %s: %w", id, err)
	}
	return &wf, nil
}

// ListExecutions implements Client.
func (c *HTTPClient) ListExecutions(ctx context.Context, opts ListExecutionsOptions) (*ExecutionList, error) {
	query := url.Values{}
	if opts.WorkflowID != "" {
		query.Set("workflowId", opts.WorkflowID)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.IncludeData {
		query.Set("includeData", "true")
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	path := "/executions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	result, err := c.sharedGet(ctx, instrumentation.OperationListExecutions, path, func(body []byte) (any, error) {
		var list ExecutionList
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decoding execution list: %w", err)
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ExecutionList), nil
}

// GetExecution implements Client.
func (c *HTTPClient) GetExecution(ctx context.Context, id string, includeData bool) (*Execution, error) {
	if id == "" {
		return nil, fmt.Errorf("execution ID is required")
	}

	path := "/executions/" + url.PathEscape(id)
	if includeData {
		path += "?includeData=true"
	}

	body, err := c.get(ctx, instrumentation.OperationGetExecution, path)
	if err != nil {
		return nil, err
	}

	var exec Execution
	if err := json.Unmarshal(body, &exec); err != nil {
		return nil, fmt.Errorf("decoding execution %s: %w", id, err)
	}
	return &exec, nil
}

// sharedGet collapses concurrent identical GETs through singleflight. The
// path doubles as the flight key since it fully identifies the request.
//
// The flight itself runs on a detached context: the request outcome is
// shared, so the first caller canceling must not fail everyone else. The
// client's own timeout still bounds the request, and each caller's
// cancellation is honored on its way out.
func (c *HTTPClient) sharedGet(ctx context.Context, operation, path string, decode func([]byte) (any, error)) (any, error) {
	flightCtx := context.WithoutCancel(ctx)
	result, err, shared := c.group.Do(path, func() (any, error) {
		body, err := c.get(flightCtx, operation, path)
		if err != nil {
			return nil, err
		}
		return decode(body)
	})
	if shared {
		c.logger.Debug("collapsed duplicate n8n request", logging.Operation(operation))
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// get performs an authenticated GET and returns the response body. Non-2xx
// responses become *APIError.
func (c *HTTPClient) get(ctx context.Context, operation, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordN8nRequest(ctx, operation, 0, time.Since(start))
		}
		c.logger.Error("n8n request failed",
			logging.Operation(operation),
			logging.SanitizedErr(err))
		return nil, fmt.Errorf("calling n8n API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.metrics != nil {
		c.metrics.RecordN8nRequest(ctx, operation, resp.StatusCode, time.Since(start))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading n8n response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: extractMessage(body)}
		c.logger.Warn("n8n request rejected",
			logging.Operation(operation),
			slog.Int("status_code", resp.StatusCode))
		return nil, apiErr
	}

	return body, nil
}

// extractMessage pulls the message field out of an n8n error body, falling
// back to a trimmed copy of the raw body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	const maxRaw = 200
	raw := strings.TrimSpace(string(body))
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return raw
}
