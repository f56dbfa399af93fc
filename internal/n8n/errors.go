package n8n

import (
	"errors"
	"fmt"
)

// Sentinel errors for common API failure modes. Wrap checks with errors.Is.
var (
	// ErrNotFound indicates the requested workflow or execution does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the API key was missing or rejected.
	ErrUnauthorized = errors.New("unauthorized: check the n8n API key")

	// ErrRateLimited indicates the n8n instance is throttling requests.
	ErrRateLimited = errors.New("rate limited by n8n instance")
)

// APIError is a non-2xx response from the n8n API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("n8n API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("n8n API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known status codes onto sentinel errors so callers can
// branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		return nil
	}
}
