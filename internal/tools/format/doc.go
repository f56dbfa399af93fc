// Package format bounds MCP tool responses to protocol-safe sizes.
//
// n8n workflows and executions can be arbitrarily large and arbitrarily
// nested; sending them verbatim would overwhelm LLM context windows and
// transport message limits. This package converts any in-memory value into
// an ordered list of fragments, each within an explicit size budget, with
// metadata telling the consumer when and why data was shortened.
//
// # Pipeline
//
// [Formatter.Format] runs an admission check with [EstimateSize], then
// either truncates and emits a single fragment, or truncates once and
// splits the result with [Chunk] into multiple fragments carrying chunk
// positions and a continuation token on the last one. [Truncate] bounds
// array lengths and nesting depth, recording what was cut; [Chunk] only
// splits, never drops. [Paginate] is independent of the pipeline and
// windows finite lists by offset/limit before formatting.
//
// # Limits
//
// All budgets are carried by [Limits]:
//
//	f := format.NewFormatter(format.Limits{MaxArrayItems: 20})
//	fragments := f.Format(value, format.Options{})
//
// Absent or invalid limits fall back to defaults and are clamped to
// absolute maxima; the formatter always produces some bounded output
// rather than failing.
//
// # Concurrency
//
// Everything here is pure and stateless. Calls own their traversal state,
// so any number of tool handlers may format concurrently without
// coordination.
package format
