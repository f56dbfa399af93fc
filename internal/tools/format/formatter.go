package format

import (
	"fmt"
)

// Options carries per-call formatting options.
type Options struct {
	// Message, when set, is prefixed to the first fragment's text only.
	Message string
}

// Formatter turns arbitrary in-memory values into a bounded, ordered list
// of protocol fragments respecting the configured limits. A Formatter is
// stateless and safe for concurrent use; every call owns its own traversal
// state.
type Formatter struct {
	limits Limits
}

// NewFormatter creates a formatter with the given limits. Out-of-range
// limits are clamped, never rejected.
func NewFormatter(limits Limits) *Formatter {
	return &Formatter{limits: limits.Validate()}
}

// Limits returns the formatter's validated limits.
func (f *Formatter) Limits() Limits {
	return f.limits
}

// Format converts a value into one or more fragments.
//
// The value is first normalized into canonical JSON shapes, so typed API
// structs and slices are bounded exactly like decoded JSON. Values whose
// estimated and confirmed size fit the response budget are truncated once
// and emitted as a single fragment. Anything else goes down the chunked
// path: one shared truncation pass, then greedy splitting, with positional
// metadata on every fragment and the continuation token on the last one. A
// failure to even estimate the size is treated as "assume oversized", not
// as an error.
func (f *Formatter) Format(v any, opts Options) []Fragment {
	v = Normalize(v)

	if f.requiresChunking(v) {
		return f.formatChunked(v, opts)
	}

	truncated, rec := Truncate(v, f.limits.MaxArrayItems, f.limits.MaxObjectDepth)
	text, err := marshalText(truncated)
	if err != nil {
		return []Fragment{f.FormatError(fmt.Errorf("failed to serialize response: %w", err))}
	}

	frag := Fragment{Text: prefixMessage(opts.Message, text)}
	if rec.WasTruncated {
		r := rec
		frag.Truncation = &r
	}
	return []Fragment{frag}
}

// FormatError converts an error value into exactly one error fragment.
// Error payloads are assumed bounded, so no truncation or chunking applies.
func (f *Formatter) FormatError(err any) Fragment {
	var msg string
	switch e := err.(type) {
	case error:
		msg = e.Error()
	case string:
		msg = e
	default:
		msg = fmt.Sprint(e)
	}
	return Fragment{Text: "Error: " + msg, IsError: true}
}

// requiresChunking is the admission check: a cheap estimate first, then a
// serialize-and-measure confirmation. Estimation failure, a detected
// reference cycle and serialization failure are all conservative signals
// that route into the chunked path, where truncation bounds the value
// before anything is serialized.
func (f *Formatter) requiresChunking(v any) (chunk bool) {
	defer func() {
		if recover() != nil {
			chunk = true
		}
	}()

	size, sawRepeat := estimateSize(v)
	if size > f.limits.MaxResponseSize || sawRepeat {
		return true
	}

	// The estimate under-counts strings with multi-byte runes and ignores
	// punctuation, so confirm against the real serialized size.
	data, err := json.Marshal(v)
	if err != nil {
		return true
	}
	return len(data) > f.limits.MaxResponseSize
}

func (f *Formatter) formatChunked(v any, opts Options) []Fragment {
	// Truncation happens once, before splitting: every fragment shares the
	// same limits and the same record.
	truncated, rec := Truncate(v, f.limits.MaxArrayItems, f.limits.MaxObjectDepth)

	payloads, token, err := Chunk(truncated, f.limits.MaxChunkSize)
	if err != nil {
		return []Fragment{f.FormatError(fmt.Errorf("failed to chunk response: %w", err))}
	}

	fragments := make([]Fragment, len(payloads))
	for i, payload := range payloads {
		frag := Fragment{
			Text:        payload,
			IsChunked:   true,
			ChunkIndex:  i,
			TotalChunks: len(payloads),
		}
		if rec.WasTruncated {
			r := rec
			frag.Truncation = &r
		}
		if i == len(payloads)-1 {
			frag.ContinuationToken = token
		}
		fragments[i] = frag
	}

	fragments[0].Text = prefixMessage(opts.Message, fragments[0].Text)
	return fragments
}

// marshalText serializes a truncated value, converting panics from
// pathological inputs into errors so nothing escapes the formatter.
func marshalText(v any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialization panic: %v", r)
		}
	}()

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func prefixMessage(message, text string) string {
	if message == "" {
		return text
	}
	return message + "\n\n" + text
}

// QuickFormat formats a value with the default limits.
func QuickFormat(v any) []Fragment {
	return NewFormatter(DefaultLimits()).Format(v, Options{})
}

// QuickFormatError formats an error value with the default limits.
func QuickFormatError(err any) Fragment {
	return NewFormatter(DefaultLimits()).FormatError(err)
}
