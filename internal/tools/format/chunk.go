package format

import (
	"bytes"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// json is the serializer for every payload this package produces. The
// drop-in config keeps the output byte-compatible with encoding/json.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Chunk splits a value into an ordered list of serialized payloads, each
// within maxChunkSize bytes, and a continuation token when more than one
// payload results. A non-positive maxChunkSize falls back to the default.
// Like Truncate, Chunk operates on the canonical JSON shapes; the formatter
// runs [Normalize] before either.
//
// Sequences and mappings are packed greedily left to right into contiguous
// groups: elements are never reordered and never dropped, so decoding all
// payloads and concatenating their elements reconstructs the input exactly.
// All size reduction is the truncator's job and happens before chunking.
//
// The one exception to the size bound is a single element or key/value
// pair that alone exceeds the budget: it is truncated with the default
// limits and emitted as its own oversized payload, never chunked further.
func Chunk(v any, maxChunkSize int) ([]string, string, error) {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	switch val := v.(type) {
	case []any:
		return chunkSequence(val, maxChunkSize)
	case map[string]any:
		return chunkMapping(val, maxChunkSize)
	default:
		// Scalars and null are a single payload with no token.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("serialize value: %w", err)
		}
		return []string{string(data)}, "", nil
	}
}

func chunkSequence(seq []any, maxChunkSize int) ([]string, string, error) {
	var (
		payloads  []string
		group     [][]byte
		groupSize int // serialized element bytes plus separators
	)

	flush := func() {
		if len(group) > 0 {
			payloads = append(payloads, joinArray(group))
			group = nil
			groupSize = 0
		}
	}

	for i, elem := range seq {
		data, err := json.Marshal(elem)
		if err != nil {
			return nil, "", fmt.Errorf("serialize element %d: %w", i, err)
		}

		// Element alone over budget: truncate it and emit it isolated.
		if len(data)+2 > maxChunkSize {
			flush()
			truncated, _ := Truncate(elem, DefaultMaxArrayItems, DefaultMaxObjectDepth)
			data, err = json.Marshal(truncated)
			if err != nil {
				return nil, "", fmt.Errorf("serialize truncated element %d: %w", i, err)
			}
			payloads = append(payloads, joinArray([][]byte{data}))
			continue
		}

		if groupSize+len(data)+2 > maxChunkSize {
			flush()
		}
		group = append(group, data)
		groupSize += len(data) + 1
	}
	flush()

	if len(payloads) <= 1 {
		if len(payloads) == 0 {
			payloads = []string{"[]"}
		}
		return payloads, "", nil
	}

	token, err := EncodeToken(Token{Kind: TokenKindSequence, Total: len(seq)})
	if err != nil {
		return nil, "", err
	}
	return payloads, token, nil
}

func chunkMapping(m map[string]any, maxChunkSize int) ([]string, string, error) {
	keys := sortedKeys(m)

	var (
		payloads  []string
		group     [][]byte
		groupSize int
	)

	flush := func() {
		if len(group) > 0 {
			payloads = append(payloads, joinObject(group))
			group = nil
			groupSize = 0
		}
	}

	for _, key := range keys {
		pair, err := marshalPair(key, m[key])
		if err != nil {
			return nil, "", err
		}

		// Pair alone over budget: truncate the value and emit the pair as
		// its own sub-object, flushing the open group first.
		if len(pair)+2 > maxChunkSize {
			flush()
			truncated, _ := Truncate(m[key], DefaultMaxArrayItems, DefaultMaxObjectDepth)
			pair, err = marshalPair(key, truncated)
			if err != nil {
				return nil, "", err
			}
			payloads = append(payloads, joinObject([][]byte{pair}))
			continue
		}

		if groupSize+len(pair)+2 > maxChunkSize {
			flush()
		}
		group = append(group, pair)
		groupSize += len(pair) + 1
	}
	flush()

	if len(payloads) <= 1 {
		if len(payloads) == 0 {
			payloads = []string{"{}"}
		}
		return payloads, "", nil
	}

	token, err := EncodeToken(Token{Kind: TokenKindMapping, Keys: keys})
	if err != nil {
		return nil, "", err
	}
	return payloads, token, nil
}

// marshalPair serializes one key/value pair as it will appear inside an
// object payload, so group sizes are measured on the real bytes.
func marshalPair(key string, value any) ([]byte, error) {
	kb, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("serialize key %q: %w", key, err)
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("serialize value for key %q: %w", key, err)
	}
	pair := make([]byte, 0, len(kb)+len(vb)+1)
	pair = append(pair, kb...)
	pair = append(pair, ':')
	return append(pair, vb...), nil
}

func joinArray(elems [][]byte) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.String()
}

func joinObject(pairs [][]byte) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(p)
	}
	buf.WriteByte('}')
	return buf.String()
}

// sortedKeys returns the mapping's keys in sorted order. Go maps have no
// iteration order, so the sorted order stands in for the key order of the
// source document and keeps chunking deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
