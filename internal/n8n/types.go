package n8n

import "time"

// Workflow is an n8n workflow as returned by the public API. Nodes and
// Connections are kept as loosely typed JSON: their schemas vary per node
// type and the server only relays them.
type Workflow struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Active      bool             `json:"active"`
	IsArchived  bool             `json:"isArchived,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Nodes       []map[string]any `json:"nodes,omitempty"`
	Connections map[string]any   `json:"connections,omitempty"`
	Settings    map[string]any   `json:"settings,omitempty"`
	Tags        []Tag            `json:"tags,omitempty"`
}

// Tag is a workflow tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Execution is a single workflow run. Data carries the full run payload and
// is only populated when requested with includeData.
type Execution struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflowId"`
	Status     string         `json:"status"`
	Mode       string         `json:"mode"`
	Finished   bool           `json:"finished"`
	RetryOf    string         `json:"retryOf,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	StoppedAt  *time.Time     `json:"stoppedAt,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Execution status values reported by n8n.
const (
	ExecutionStatusSuccess  = "success"
	ExecutionStatusError    = "error"
	ExecutionStatusWaiting  = "waiting"
	ExecutionStatusCanceled = "canceled"
	ExecutionStatusRunning  = "running"
)

// WorkflowList is a page of workflows. NextCursor is non-empty when more
// pages exist upstream.
type WorkflowList struct {
	Data       []Workflow `json:"data"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// ExecutionList is a page of executions.
type ExecutionList struct {
	Data       []Execution `json:"data"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// ListWorkflowsOptions filters a workflow listing. Zero values mean "no
// filter". Limit is capped server-side by n8n (250 at the time of writing).
type ListWorkflowsOptions struct {
	Active *bool  `json:"active,omitempty"`
	Name   string `json:"name,omitempty"`
	Tags   string `json:"tags,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// ListExecutionsOptions filters an execution listing.
type ListExecutionsOptions struct {
	WorkflowID  string `json:"workflowId,omitempty"`
	Status      string `json:"status,omitempty"`
	IncludeData bool   `json:"includeData,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Cursor      string `json:"cursor,omitempty"`
}
