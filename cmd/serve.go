package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/logging"
	"github.com/atmaker/n8n-mcp-server/internal/n8n"
	"github.com/atmaker/n8n-mcp-server/internal/server"
	"github.com/atmaker/n8n-mcp-server/internal/tools/execution"
	"github.com/atmaker/n8n-mcp-server/internal/tools/workflow"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		// Upstream options
		n8nBaseURL string
		n8nAPIKey  string

		// Logging options
		logLevel  string
		debugMode bool

		// Response shaping options
		maxResponseSize int
		maxArrayItems   int
		maxObjectDepth  int
		maxChunkSize    int

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string
		allowedOrigins  string

		// Metrics options
		enableMetricsServer bool
		metricsAddr         string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the n8n MCP server",
		Long: `Start the MCP server to expose n8n workflows and executions
as tools via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

The server authenticates to n8n with a static API key. Responses are
shaped to fit LLM context windows: values over the response budget are
truncated and split into ordered chunked fragments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Security warning: CLI credential flags may be visible in process listings
			if cmd.Flags().Changed("n8n-api-key") {
				log.Printf("WARNING: n8n API key provided via CLI flag - the key may be visible in process listings (ps aux)")
				log.Printf("         For better security, use the N8N_API_KEY environment variable instead")
			}

			config := ServeConfig{
				Transport:       transport,
				HTTPAddr:        httpAddr,
				SSEEndpoint:     sseEndpoint,
				MessageEndpoint: messageEndpoint,
				HTTPEndpoint:    httpEndpoint,
				AllowedOrigins:  allowedOrigins,
				N8nBaseURL:      n8nBaseURL,
				N8nAPIKey:       n8nAPIKey,
				LogLevel:        logLevel,
				DebugMode:       debugMode,
				Metrics: MetricsServeConfig{
					Enabled: enableMetricsServer,
					Addr:    metricsAddr,
				},
			}
			config.Limits.MaxResponseSize = maxResponseSize
			config.Limits.MaxArrayItems = maxArrayItems
			config.Limits.MaxObjectDepth = maxObjectDepth
			config.Limits.MaxChunkSize = maxChunkSize

			return runServe(config)
		},
	}

	// Upstream flags
	cmd.Flags().StringVar(&n8nBaseURL, "n8n-base-url", "", "Base URL of the n8n instance (can also be set via N8N_BASE_URL env var)")
	cmd.Flags().StringVar(&n8nAPIKey, "n8n-api-key", "", "n8n API key (prefer the N8N_API_KEY env var)")

	// Logging flags
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (shorthand for --log-level debug)")

	// Response shaping flags (0 = use default)
	cmd.Flags().IntVar(&maxResponseSize, "max-response-size", 0, "Response size budget in bytes before chunking (0 = default)")
	cmd.Flags().IntVar(&maxArrayItems, "max-array-items", 0, "Maximum array elements kept per value (0 = default)")
	cmd.Flags().IntVar(&maxObjectDepth, "max-object-depth", 0, "Maximum nesting depth kept per value (0 = default)")
	cmd.Flags().IntVar(&maxChunkSize, "max-chunk-size", 0, "Per-fragment size budget in bytes (0 = default)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().StringVar(&allowedOrigins, "allowed-origins", "", "Comma-separated CORS origins for browser MCP clients (can also be set via N8N_MCP_ALLOWED_ORIGINS env var)")

	// Metrics flags
	cmd.Flags().BoolVar(&enableMetricsServer, "enable-metrics-server", false, "Serve Prometheus metrics on a dedicated listener (requires INSTRUMENTATION_ENABLED=true)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	// Fill unset values from the environment
	loadEnvIfEmpty(&config.N8nBaseURL, "N8N_BASE_URL")
	loadEnvIfEmpty(&config.N8nAPIKey, "N8N_API_KEY")
	loadEnvIfEmpty(&config.AllowedOrigins, "N8N_MCP_ALLOWED_ORIGINS")
	loadLimitEnvOverrides(&config.Limits)

	if err := validateBaseURL(config.N8nBaseURL); err != nil {
		return err
	}
	if config.N8nAPIKey == "" {
		return fmt.Errorf("n8n API key is required (N8N_API_KEY or --n8n-api-key)")
	}

	if config.DebugMode {
		config.LogLevel = "debug"
	}
	logger := logging.NewLevelLogger(config.LogLevel)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	// Create the n8n API client
	clientOpts := []n8n.Option{n8n.WithLogger(logger.Logger())}
	if instrumentationProvider.Enabled() {
		clientOpts = append(clientOpts, n8n.WithMetrics(instrumentationProvider.Metrics()))
	}
	n8nClient, err := n8n.NewClient(config.N8nBaseURL, config.N8nAPIKey, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create n8n client: %w", err)
	}

	// Create server context
	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.N8nBaseURL = config.N8nBaseURL
	serverConfig.N8nAPIKey = config.N8nAPIKey
	serverConfig.Limits = config.Limits
	serverConfig.LogLevel = config.LogLevel

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithN8nClient(n8nClient),
		server.WithLogger(logger),
		server.WithConfig(serverConfig),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("n8n-mcp-server", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := workflow.RegisterWorkflowTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register workflow tools: %w", err)
	}

	if err := execution.RegisterExecutionTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register execution tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		fmt.Printf("Starting n8n MCP server with %s transport...\n", config.Transport)
		return runSSEServer(mcpSrv, config.HTTPAddr, config.SSEEndpoint, config.MessageEndpoint, shutdownCtx, config.DebugMode)
	case transportStreamableHTTP:
		fmt.Printf("Starting n8n MCP server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(mcpSrv, shutdownCtx, instrumentationProvider, serverContext, config)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s)", config.Transport, validTransports())
	}
}
