package n8n

import "strings"

// RedactedValue is the placeholder used for masked secret data.
const RedactedValue = "***REDACTED***"

// sensitiveKeyPatterns are key substrings that indicate a value holds a
// credential. Node parameters and execution payloads are free-form JSON, so
// matching is by name pattern rather than schema.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"apikey",
	"api_key",
	"accesskey",
	"access_key",
	"privatekey",
	"private_key",
	"authorization",
}

// isSensitiveKey reports whether a JSON key looks like it names a credential.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return true
		}
	}
	return false
}

// RedactWorkflow returns a copy of the workflow with credential-looking node
// parameters masked. Credential references (id and name) stay visible; only
// literal secret values are replaced. The input is never modified.
func RedactWorkflow(w *Workflow) *Workflow {
	if w == nil {
		return nil
	}

	out := *w
	if w.Nodes != nil {
		out.Nodes = make([]map[string]any, len(w.Nodes))
		for i, node := range w.Nodes {
			out.Nodes[i] = redactMap(node)
		}
	}
	return &out
}

// RedactWorkflows masks credentials in a list of workflows.
func RedactWorkflows(workflows []Workflow) []Workflow {
	if len(workflows) == 0 {
		return workflows
	}

	out := make([]Workflow, len(workflows))
	for i := range workflows {
		out[i] = *RedactWorkflow(&workflows[i])
	}
	return out
}

// RedactExecution returns a copy of the execution with credential-looking
// values in the run data masked. The input is never modified.
func RedactExecution(e *Execution) *Execution {
	if e == nil {
		return nil
	}

	out := *e
	out.Data = redactMap(e.Data)
	return &out
}

// redactMap rebuilds a map, masking values under sensitive keys and
// descending into nested maps and slices.
func redactMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for key, value := range m {
		if isSensitiveKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return redactMap(value)
	case []any:
		out := make([]any, len(value))
		for i, elem := range value {
			out[i] = redactValue(elem)
		}
		return out
	default:
		return v
	}
}
