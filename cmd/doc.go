// Package cmd provides the command-line interface for n8n-mcp-server.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified, so the bare
// binary can be used directly as an MCP stdio server.
//
// Command Structure:
//
//	n8n-mcp-server [flags]                 # Starts the MCP server (default)
//	n8n-mcp-server serve [flags]           # Explicitly starts the MCP server
//	n8n-mcp-server version                 # Shows version information
//	n8n-mcp-server self-update             # Updates to latest release
//	n8n-mcp-server help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	n8n-mcp-server serve --transport stdio           # Default STDIO transport
//	n8n-mcp-server serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	n8n-mcp-server serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also accepts flags for the n8n connection (base URL and
// API key, both of which can come from the environment) and for the response
// shaping limits that bound how much data a single tool call may return.
package cmd
