package instrumentation

import "strconv"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics derived from payload sizes
// or upstream HTTP status codes.

// SizeClass represents a classification of response payload sizes for metrics.
type SizeClass string

// Size class boundaries in bytes. "oversized" marks payloads past the default
// single-response budget, the population that forces chunking.
const (
	// SizeClassSmall represents payloads up to 10 KiB.
	SizeClassSmall SizeClass = "small"

	// SizeClassMedium represents payloads up to 100 KiB.
	SizeClassMedium SizeClass = "medium"

	// SizeClassLarge represents payloads up to 1 MB.
	SizeClassLarge SizeClass = "large"

	// SizeClassOversized represents payloads past the single-response budget.
	SizeClassOversized SizeClass = "oversized"
)

// ClassifyResponseSize classifies a serialized payload size into a class for
// metrics. This keeps the size_class label to four values instead of using
// raw byte counts.
//
//	ClassifyResponseSize(512)        // "small"
//	ClassifyResponseSize(50_000)     // "medium"
//	ClassifyResponseSize(500_000)    // "large"
//	ClassifyResponseSize(2_000_000)  // "oversized"
func ClassifyResponseSize(bytes int) string {
	switch {
	case bytes <= 10*1024:
		return string(SizeClassSmall)
	case bytes <= 100*1024:
		return string(SizeClassMedium)
	case bytes <= 1_000_000:
		return string(SizeClassLarge)
	default:
		return string(SizeClassOversized)
	}
}

// ClassifyStatusCode collapses an HTTP status code into its class ("2xx",
// "3xx", "4xx", "5xx"). Codes outside 100-599 yield "unknown". This prevents
// a misbehaving upstream from minting unbounded status label values.
//
//	ClassifyStatusCode(200)  // "2xx"
//	ClassifyStatusCode(404)  // "4xx"
//	ClassifyStatusCode(0)    // "unknown"
func ClassifyStatusCode(code int) string {
	if code < 100 || code > 599 {
		return StatusUnknown
	}
	return strconv.Itoa(code/100) + "xx"
}
