package format

// Default limits for response shaping.
// These are tuned for typical LLM context windows and MCP message sizes.
const (
	// DefaultMaxResponseSize is the default size budget for a whole response
	// before chunking kicks in, in estimated bytes.
	DefaultMaxResponseSize = 1_000_000

	// DefaultMaxArrayItems is the default maximum number of array elements
	// kept when truncating a value.
	DefaultMaxArrayItems = 50

	// DefaultMaxObjectDepth is the default maximum nesting depth kept when
	// truncating a value. Anything deeper collapses to a sentinel string.
	DefaultMaxObjectDepth = 5

	// DefaultMaxChunkSize is the default per-fragment size budget in bytes.
	DefaultMaxChunkSize = 500_000

	// AbsoluteMaxResponseSize is the absolute maximum response budget.
	// This prevents context exhaustion even when callers request higher limits.
	AbsoluteMaxResponseSize = 10_000_000

	// AbsoluteMaxArrayItems is the absolute maximum array elements per value.
	AbsoluteMaxArrayItems = 1000

	// AbsoluteMaxObjectDepth is the absolute maximum reported nesting depth.
	AbsoluteMaxObjectDepth = 20

	// AbsoluteMaxChunkSize is the absolute maximum per-fragment budget.
	AbsoluteMaxChunkSize = 5_000_000
)

// Limits holds the size limits applied when formatting a response.
// All limits have sensible defaults; a zero or negative field means
// "use the default", never "disable the limit".
type Limits struct {
	// MaxResponseSize is the estimated-byte budget for a whole response.
	// Responses over this budget are split into chunked fragments.
	// Default: 1MB, Absolute max: 10MB
	MaxResponseSize int `json:"maxResponseSize" yaml:"maxResponseSize"`

	// MaxArrayItems limits the number of elements kept per array.
	// Default: 50, Absolute max: 1000
	MaxArrayItems int `json:"maxArrayItems" yaml:"maxArrayItems"`

	// MaxObjectDepth limits the nesting depth kept per value.
	// Default: 5, Absolute max: 20
	MaxObjectDepth int `json:"maxObjectDepth" yaml:"maxObjectDepth"`

	// MaxChunkSize is the serialized-byte budget per fragment.
	// Default: 500KB, Absolute max: 5MB
	MaxChunkSize int `json:"maxChunkSize" yaml:"maxChunkSize"`
}

// DefaultLimits returns a Limits with the default budgets.
func DefaultLimits() Limits {
	return Limits{
		MaxResponseSize: DefaultMaxResponseSize,
		MaxArrayItems:   DefaultMaxArrayItems,
		MaxObjectDepth:  DefaultMaxObjectDepth,
		MaxChunkSize:    DefaultMaxChunkSize,
	}
}

// Validate returns a copy of the limits with out-of-range values corrected.
// Invalid limits are clamped rather than rejected: the formatter always
// favors producing some bounded output over failing the call.
func (l Limits) Validate() Limits {
	validated := l

	// Apply minimum bounds
	if validated.MaxResponseSize <= 0 {
		validated.MaxResponseSize = DefaultMaxResponseSize
	}
	if validated.MaxArrayItems <= 0 {
		validated.MaxArrayItems = DefaultMaxArrayItems
	}
	if validated.MaxObjectDepth <= 0 {
		validated.MaxObjectDepth = DefaultMaxObjectDepth
	}
	if validated.MaxChunkSize <= 0 {
		validated.MaxChunkSize = DefaultMaxChunkSize
	}

	// Apply absolute maximum bounds
	if validated.MaxResponseSize > AbsoluteMaxResponseSize {
		validated.MaxResponseSize = AbsoluteMaxResponseSize
	}
	if validated.MaxArrayItems > AbsoluteMaxArrayItems {
		validated.MaxArrayItems = AbsoluteMaxArrayItems
	}
	if validated.MaxObjectDepth > AbsoluteMaxObjectDepth {
		validated.MaxObjectDepth = AbsoluteMaxObjectDepth
	}
	if validated.MaxChunkSize > AbsoluteMaxChunkSize {
		validated.MaxChunkSize = AbsoluteMaxChunkSize
	}

	return validated
}

// Record describes what was cut from a value during truncation.
// One Record is produced per top-level formatting call; when the response
// is chunked, the same record is attached to every affected fragment.
type Record struct {
	// WasTruncated indicates that any part of the value was cut.
	WasTruncated bool `json:"wasTruncated"`

	// ItemsOmitted is the total number of array elements dropped, summed
	// across every truncated array anywhere in the value.
	ItemsOmitted int `json:"itemsOmitted,omitempty"`

	// Reason is a human-readable message for the first limit that was hit.
	Reason string `json:"reason,omitempty"`
}

// Fragment is one self-contained protocol message produced by formatting
// a value, possibly one of several in an ordered sequence.
type Fragment struct {
	// Text is the serialized payload.
	Text string `json:"text"`

	// IsError marks a fragment carrying a formatted error instead of data.
	IsError bool `json:"isError,omitempty"`

	// IsChunked is set on every fragment of a multi-fragment response.
	IsChunked bool `json:"isChunked,omitempty"`

	// ChunkIndex is the 0-based position of this fragment. A missing
	// chunkIndex on the wire means the first fragment.
	ChunkIndex int `json:"chunkIndex,omitempty"`

	// TotalChunks is the number of fragments in the response.
	TotalChunks int `json:"totalChunks,omitempty"`

	// ContinuationToken describes what remains unsent. It is only set on
	// the last fragment of a chunked response and is opaque to transports.
	ContinuationToken string `json:"continuationToken,omitempty"`

	// Truncation is attached when the source value was truncated.
	Truncation *Record `json:"truncation,omitempty"`
}

// WireText returns the fragment's transport representation. A plain fragment
// is sent as its bare text; a fragment carrying chunk or truncation metadata
// is sent as the JSON-encoded fragment so the metadata travels with it.
func (f Fragment) WireText() string {
	if !f.IsChunked && f.Truncation == nil {
		return f.Text
	}
	data, err := json.Marshal(f)
	if err != nil {
		// Fragment fields are all marshalable; this path is unreachable in
		// practice, but the payload text is still the best fallback.
		return f.Text
	}
	return string(data)
}
