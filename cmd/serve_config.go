package cmd

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// AllowedOrigins is a comma-separated CORS allow list for browser-based
	// MCP clients on the HTTP transports.
	AllowedOrigins string

	// n8n upstream settings
	N8nBaseURL string
	N8nAPIKey  string

	// Logging
	LogLevel  string
	DebugMode bool

	// Response shaping limits; zero fields fall back to the defaults.
	Limits format.Limits

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig configures the dedicated metrics listener.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseIntEnv parses an integer from an environment variable value.
// Returns the parsed int and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return n, true
}

// loadLimitEnvOverrides fills unset limit fields from environment variables.
// Flags win over the environment; the formatter's own clamping handles
// out-of-range values.
func loadLimitEnvOverrides(limits *format.Limits) {
	if limits.MaxResponseSize == 0 {
		if n, ok := parseIntEnv(os.Getenv("N8N_MCP_MAX_RESPONSE_SIZE"), "N8N_MCP_MAX_RESPONSE_SIZE"); ok {
			limits.MaxResponseSize = n
		}
	}
	if limits.MaxArrayItems == 0 {
		if n, ok := parseIntEnv(os.Getenv("N8N_MCP_MAX_ARRAY_ITEMS"), "N8N_MCP_MAX_ARRAY_ITEMS"); ok {
			limits.MaxArrayItems = n
		}
	}
	if limits.MaxObjectDepth == 0 {
		if n, ok := parseIntEnv(os.Getenv("N8N_MCP_MAX_OBJECT_DEPTH"), "N8N_MCP_MAX_OBJECT_DEPTH"); ok {
			limits.MaxObjectDepth = n
		}
	}
	if limits.MaxChunkSize == 0 {
		if n, ok := parseIntEnv(os.Getenv("N8N_MCP_MAX_CHUNK_SIZE"), "N8N_MCP_MAX_CHUNK_SIZE"); ok {
			limits.MaxChunkSize = n
		}
	}
}

// validateBaseURL checks that the n8n base URL is a usable HTTP(S) URL.
// Plain HTTP is allowed because self-hosted n8n instances commonly run
// without TLS on private networks, but a warning is logged.
func validateBaseURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("n8n base URL is required (--n8n-base-url or N8N_BASE_URL)")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("n8n base URL must be a valid URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "https":
	case "http":
		log.Printf("Warning: n8n base URL uses plain HTTP; the API key will be sent unencrypted")
	case "":
		return fmt.Errorf("n8n base URL must include a scheme (http:// or https://)")
	default:
		return fmt.Errorf("n8n base URL must use http or https (got: %s)", parsedURL.Scheme)
	}

	if parsedURL.Hostname() == "" {
		return fmt.Errorf("n8n base URL must have a valid hostname")
	}

	return nil
}

// validTransports lists the supported transport names for error messages.
func validTransports() string {
	return strings.Join([]string{transportStdio, transportSSE, transportStreamableHTTP}, ", ")
}
