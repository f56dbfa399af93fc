package format

import (
	"fmt"
	"regexp"
)

// DepthSentinel replaces any composite nested deeper than the depth limit.
const DepthSentinel = "[Truncated: max depth exceeded]"

// arrayMarkerFormat renders the synthetic element appended to a shortened
// array in place of the dropped tail.
const arrayMarkerFormat = "... and %d more items"

// arrayMarkerRegex recognizes a marker element produced by an earlier pass,
// so re-truncating an already-truncated value is a no-op.
var arrayMarkerRegex = regexp.MustCompile(`^\.\.\. and \d+ more items$`)

// Truncate bounds the array lengths and nesting depth of a value, returning
// the rebuilt value and a record of what was cut. The input is never
// mutated. Non-positive limits fall back to the defaults. Truncate operates
// on the canonical JSON shapes; typed values go through [Normalize] first,
// as the formatter does.
//
// The record's Reason reports the first limit hit during the depth-first
// walk: the depth check runs before the array-length check at each node, so
// a shallow depth violation always pre-empts a deeper array violation.
// ItemsOmitted accumulates across every shortened array in the value.
//
// Truncate is idempotent: running it again with the same limits returns the
// value unchanged and a record with WasTruncated=false, because the depth
// sentinel is an ordinary string and the array marker element is recognized
// and left alone.
func Truncate(v any, maxArrayItems, maxObjectDepth int) (any, Record) {
	if maxArrayItems <= 0 {
		maxArrayItems = DefaultMaxArrayItems
	}
	if maxObjectDepth <= 0 {
		maxObjectDepth = DefaultMaxObjectDepth
	}

	var rec Record
	out := truncateValue(v, 0, maxArrayItems, maxObjectDepth, &rec)
	return out, rec
}

// truncateValue rebuilds v depth-first. The depth counter starts at 0 for
// the root; composites past maxDepth collapse before their children are
// visited, which also bounds the recursion on cyclic input.
func truncateValue(v any, depth, maxItems, maxDepth int, rec *Record) any {
	switch val := v.(type) {
	case []any:
		if depth > maxDepth {
			recordDepthExceeded(rec, maxDepth)
			return DepthSentinel
		}
		return truncateSequence(val, depth, maxItems, maxDepth, rec)
	case map[string]any:
		if depth > maxDepth {
			recordDepthExceeded(rec, maxDepth)
			return DepthSentinel
		}
		// Every key is kept; only values are truncated. Keys are walked in
		// sorted order so the first-reported reason is deterministic.
		out := make(map[string]any, len(val))
		for _, key := range sortedKeys(val) {
			out[key] = truncateValue(val[key], depth+1, maxItems, maxDepth, rec)
		}
		return out
	default:
		// Scalars and null pass through unchanged.
		return v
	}
}

func truncateSequence(seq []any, depth, maxItems, maxDepth int, rec *Record) any {
	if isTruncatedSequence(seq, maxItems) {
		// Already shortened by an earlier pass with the same limit: keep
		// the marker element and only revisit the kept elements.
		out := make([]any, len(seq))
		for i, elem := range seq[:len(seq)-1] {
			out[i] = truncateValue(elem, depth+1, maxItems, maxDepth, rec)
		}
		out[len(seq)-1] = seq[len(seq)-1]
		return out
	}

	if len(seq) <= maxItems {
		out := make([]any, len(seq))
		for i, elem := range seq {
			out[i] = truncateValue(elem, depth+1, maxItems, maxDepth, rec)
		}
		return out
	}

	omitted := len(seq) - maxItems
	rec.WasTruncated = true
	rec.ItemsOmitted += omitted
	if rec.Reason == "" {
		rec.Reason = fmt.Sprintf("Array size exceeded maximum of %d items", maxItems)
	}

	out := make([]any, 0, maxItems+1)
	for _, elem := range seq[:maxItems] {
		out = append(out, truncateValue(elem, depth+1, maxItems, maxDepth, rec))
	}
	return append(out, fmt.Sprintf(arrayMarkerFormat, omitted))
}

// isTruncatedSequence reports whether seq is the output of an earlier
// truncation pass with the same item limit: exactly maxItems kept elements
// followed by one marker element.
func isTruncatedSequence(seq []any, maxItems int) bool {
	if len(seq) != maxItems+1 {
		return false
	}
	last, ok := seq[len(seq)-1].(string)
	return ok && arrayMarkerRegex.MatchString(last)
}

func recordDepthExceeded(rec *Record, maxDepth int) {
	rec.WasTruncated = true
	if rec.Reason == "" {
		rec.Reason = fmt.Sprintf("Object depth exceeded maximum of %d levels", maxDepth)
	}
}
