package server

import (
	"errors"

	"github.com/atmaker/n8n-mcp-server/internal/instrumentation"
	"github.com/atmaker/n8n-mcp-server/internal/logging"
	"github.com/atmaker/n8n-mcp-server/internal/n8n"
	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithN8nClient sets the n8n API client for the ServerContext.
func WithN8nClient(client n8n.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingN8nClient
		}
		sc.n8nClient = client
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithVersion sets the reported server version.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithLimits sets the response shaping limits. Values are clamped into their
// valid ranges when the formatter is built.
func WithLimits(limits format.Limits) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Limits = limits
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingN8nClient = errors.New("n8n client is required")
	ErrMissingLogger    = errors.New("logger is required")
	ErrMissingConfig    = errors.New("configuration is required")
	ErrServerShutdown   = errors.New("server context has been shutdown")
)

// NewDefaultLogger creates a JSON logger writing to stderr.
func NewDefaultLogger() Logger {
	return logging.DefaultLogger()
}
