// Package logging provides structured logging utilities for the n8n MCP server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Credential masking (API keys are reduced to a length indicator)
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "list_workflows")
//	logger.Info("response shaped",
//	    logging.FragmentCount(3),
//	    logging.Truncated(true))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("connecting to n8n",
//	    logging.Host(baseURL),
//	    slog.String("api_key", logging.SanitizeAPIKey(key)))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - n8n instance URLs have IP addresses redacted to prevent topology leakage
//   - API keys are never logged directly, even as a prefix
//   - Stdout is never written to: it belongs to the stdio MCP transport
package logging
