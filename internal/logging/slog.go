package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation     = "operation"
	KeyTool          = "tool"
	KeyWorkflowID    = "workflow_id"
	KeyExecutionID   = "execution_id"
	KeyFragmentCount = "fragment_count"
	KeyChunked       = "chunked"
	KeyTruncated     = "truncated"
	KeyDuration      = "duration"
	KeyStatus        = "status"
	KeyError         = "error"
	KeyHost          = "host"
	KeyTransport     = "transport"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches common IPv6 forms, including the bracketed form used
// in URLs.
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(name string) slog.Attr {
	return slog.String(KeyTool, name)
}

// WorkflowID returns a slog attribute for an n8n workflow ID.
func WorkflowID(id string) slog.Attr {
	return slog.String(KeyWorkflowID, id)
}

// ExecutionID returns a slog attribute for an n8n execution ID.
func ExecutionID(id string) slog.Attr {
	return slog.String(KeyExecutionID, id)
}

// FragmentCount returns a slog attribute for the number of fragments a
// response was split into.
func FragmentCount(n int) slog.Attr {
	return slog.Int(KeyFragmentCount, n)
}

// Chunked returns a slog attribute marking a multi-fragment response.
func Chunked(chunked bool) slog.Attr {
	return slog.Bool(KeyChunked, chunked)
}

// Truncated returns a slog attribute marking a truncated response.
func Truncated(truncated bool) slog.Attr {
	return slog.Bool(KeyTruncated, truncated)
}

// Duration returns a slog attribute for an operation duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses
// redacted. Use it when logging errors from the n8n API, whose messages
// may embed the instance host.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeHost(err.Error()))
}

// Host returns a slog attribute for a host with IP addresses sanitized.
func Host(host string) slog.Attr {
	return slog.String(KeyHost, SanitizeHost(host))
}

// SanitizeHost returns a sanitized version of the host for logging.
// IP addresses (IPv4 and IPv6) are redacted so the n8n instance's network
// topology does not leak into logs, while hostnames stay readable.
//
// Examples:
//   - "https://192.168.1.100:5678" -> "https://<redacted-ip>:5678"
//   - "https://n8n.example.com:5678" -> "https://n8n.example.com:5678"
//   - "" -> "<empty>"
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}

	redactIPs := func(s string) string {
		result := ipv4Regex.ReplaceAllString(s, "<redacted-ip>")
		return ipv6Regex.ReplaceAllString(result, "<redacted-ip>")
	}

	if !strings.Contains(host, "://") {
		return redactIPs(host)
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return redactIPs(host)
	}

	if ipv4Regex.MatchString(parsed.Host) || ipv6Regex.MatchString(parsed.Host) {
		parsed.Host = redactIPs(parsed.Host)
		return parsed.String()
	}

	return host
}

// SanitizeAPIKey returns a masked version of an API key for logging.
// Only a length indicator is kept: even a key prefix can aid attacks.
func SanitizeAPIKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[api-key:%d chars]", len(key))
}
