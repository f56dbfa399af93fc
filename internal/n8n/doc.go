// Package n8n provides a thin client for the n8n public REST API.
//
// The client covers the read paths the MCP tools need: listing and fetching
// workflows and executions. All operations accept a context and authenticate
// with a static API key sent in the X-N8N-API-KEY header.
//
// Concurrent identical list calls are collapsed with singleflight so a burst
// of identical tool invocations produces a single upstream request.
package n8n
