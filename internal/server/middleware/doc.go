// Package middleware provides HTTP middleware for the n8n MCP server.
// These middleware functions handle security headers, CORS, request metrics,
// and other cross-cutting concerns.
package middleware
