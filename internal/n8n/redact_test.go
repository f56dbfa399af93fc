package n8n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"apiKey", true},
		{"api_key", true},
		{"webhookToken", true},
		{"clientSecret", true},
		{"Authorization", true},
		{"sshPrivateKey", true},
		{"url", false},
		{"method", false},
		{"name", false},
		{"authentication", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, isSensitiveKey(tt.key))
		})
	}
}

func TestRedactWorkflow(t *testing.T) {
	workflow := &Workflow{
		ID:   "wf-1",
		Name: "http sync",
		Nodes: []map[string]any{
			{
				"name": "HTTP Request",
				"type": "n8n-nodes-base.httpRequest",
				"parameters": map[string]any{
					"url":      "https://api.example.com",
					"apiKey":   "sk-live-1234",
					"headers":  []any{map[string]any{"Authorization": "Bearer abc"}},
					"method":   "POST",
					"password": "hunter2",
				},
				"credentials": map[string]any{
					"httpBasicAuth": map[string]any{"id": "5", "name": "prod creds"},
				},
			},
		},
	}

	redacted := RedactWorkflow(workflow)

	params := redacted.Nodes[0]["parameters"].(map[string]any)
	assert.Equal(t, RedactedValue, params["apiKey"])
	assert.Equal(t, RedactedValue, params["password"])
	assert.Equal(t, "https://api.example.com", params["url"], "non-sensitive values survive")

	headers := params["headers"].([]any)
	assert.Equal(t, RedactedValue, headers[0].(map[string]any)["Authorization"])

	// Credential references keep id and name; only literal values are masked.
	creds := redacted.Nodes[0]["credentials"].(map[string]any)
	assert.Equal(t, "prod creds", creds["httpBasicAuth"].(map[string]any)["name"])

	// The input workflow is untouched.
	assert.Equal(t, "sk-live-1234", workflow.Nodes[0]["parameters"].(map[string]any)["apiKey"])
}

func TestRedactWorkflows(t *testing.T) {
	workflows := []Workflow{
		{ID: "a", Nodes: []map[string]any{{"parameters": map[string]any{"token": "t1"}}}},
		{ID: "b"},
	}

	redacted := RedactWorkflows(workflows)
	require.Len(t, redacted, 2)
	assert.Equal(t, RedactedValue, redacted[0].Nodes[0]["parameters"].(map[string]any)["token"])
	assert.Equal(t, "t1", workflows[0].Nodes[0]["parameters"].(map[string]any)["token"])
}

func TestRedactExecution(t *testing.T) {
	execution := &Execution{
		ID: "exec-1",
		Data: map[string]any{
			"resultData": map[string]any{
				"runData": map[string]any{
					"HTTP Request": []any{
						map[string]any{"json": map[string]any{"access_token": "abc", "status": "ok"}},
					},
				},
			},
		},
	}

	redacted := RedactExecution(execution)

	run := redacted.Data["resultData"].(map[string]any)["runData"].(map[string]any)
	item := run["HTTP Request"].([]any)[0].(map[string]any)["json"].(map[string]any)
	assert.Equal(t, RedactedValue, item["access_token"])
	assert.Equal(t, "ok", item["status"])
}

func TestRedactNilInputs(t *testing.T) {
	assert.Nil(t, RedactWorkflow(nil))
	assert.Nil(t, RedactExecution(nil))
	assert.Nil(t, redactMap(nil))

	// Executions without run data pass through.
	e := RedactExecution(&Execution{ID: "x"})
	assert.Nil(t, e.Data)
}
