package format

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_SmallValueSingleFragment(t *testing.T) {
	f := NewFormatter(DefaultLimits())

	fragments := f.Format(map[string]any{"name": "My Workflow", "active": true}, Options{})

	require.Len(t, fragments, 1)
	frag := fragments[0]
	assert.False(t, frag.IsChunked)
	assert.False(t, frag.IsError)
	assert.Empty(t, frag.ContinuationToken)
	assert.Nil(t, frag.Truncation)
	assert.Contains(t, frag.Text, `"name":"My Workflow"`)
}

func TestFormat_TruncationRecordAttached(t *testing.T) {
	f := NewFormatter(Limits{MaxArrayItems: 10})

	fragments := f.Format(makeArray(100), Options{})

	require.Len(t, fragments, 1)
	rec := fragments[0].Truncation
	require.NotNil(t, rec)
	assert.True(t, rec.WasTruncated)
	assert.Equal(t, 90, rec.ItemsOmitted)
	assert.Contains(t, fragments[0].Text, "more items")
}

func TestFormat_ChunkedResponse(t *testing.T) {
	f := NewFormatter(Limits{
		MaxResponseSize: 500,
		MaxChunkSize:    200,
		MaxArrayItems:   AbsoluteMaxArrayItems,
	})

	seq := make([]any, 50)
	for i := range seq {
		seq[i] = fmt.Sprintf("element-%02d-%s", i, strings.Repeat("x", 10))
	}

	fragments := f.Format(seq, Options{})
	require.Greater(t, len(fragments), 1)

	for i, frag := range fragments {
		assert.True(t, frag.IsChunked, "fragment %d", i)
		assert.Equal(t, i, frag.ChunkIndex, "fragment %d", i)
		assert.Equal(t, len(fragments), frag.TotalChunks, "fragment %d", i)

		if i == len(fragments)-1 {
			assert.NotEmpty(t, frag.ContinuationToken, "last fragment carries the token")
		} else {
			assert.Empty(t, frag.ContinuationToken, "fragment %d", i)
		}
	}

	tok, err := DecodeToken(fragments[len(fragments)-1].ContinuationToken)
	require.NoError(t, err)
	assert.Equal(t, TokenKindSequence, tok.Kind)
	assert.Equal(t, 50, tok.Total)
}

func TestFormat_ChunkedSharesOneTruncationRecord(t *testing.T) {
	f := NewFormatter(Limits{
		MaxResponseSize: 300,
		MaxChunkSize:    150,
		MaxArrayItems:   30,
	})

	fragments := f.Format(makeArray(100), Options{})
	require.Greater(t, len(fragments), 1)

	for i, frag := range fragments {
		require.NotNil(t, frag.Truncation, "fragment %d", i)
		assert.Equal(t, 70, frag.Truncation.ItemsOmitted, "fragment %d shares the single pass", i)
	}
}

func TestFormat_MessagePrefixOnFirstFragmentOnly(t *testing.T) {
	f := NewFormatter(Limits{
		MaxResponseSize: 300,
		MaxChunkSize:    150,
		MaxArrayItems:   AbsoluteMaxArrayItems,
	})

	fragments := f.Format(makeArray(60), Options{Message: "Found 60 executions"})
	require.Greater(t, len(fragments), 1)

	assert.True(t, strings.HasPrefix(fragments[0].Text, "Found 60 executions\n\n"))
	for _, frag := range fragments[1:] {
		assert.False(t, strings.Contains(frag.Text, "Found 60 executions"))
	}
}

func TestFormat_MessagePrefixSingleFragment(t *testing.T) {
	f := NewFormatter(DefaultLimits())

	fragments := f.Format(map[string]any{"ok": true}, Options{Message: "Workflow activated"})

	require.Len(t, fragments, 1)
	assert.Equal(t, "Workflow activated\n\n{\"ok\":true}", fragments[0].Text)
}

func TestFormat_CyclicValueDoesNotHang(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m

	fragments := NewFormatter(DefaultLimits()).Format(m, Options{})

	require.NotEmpty(t, fragments)
	for _, frag := range fragments {
		assert.False(t, frag.IsError)
		// The cycle was cut by the depth limit before serialization.
		assert.NotContains(t, frag.Text, "loop\"loop")
	}
}

func TestFormat_ZeroLimitsMeanDefaults(t *testing.T) {
	f := NewFormatter(Limits{})
	assert.Equal(t, DefaultLimits(), f.Limits())

	fragments := f.Format("hello", Options{})
	require.Len(t, fragments, 1)
	assert.Equal(t, `"hello"`, fragments[0].Text)
}

func TestFormatError(t *testing.T) {
	f := NewFormatter(DefaultLimits())

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "error value", input: errors.New("connection refused"), want: "Error: connection refused"},
		{name: "message string", input: "workflow not found", want: "Error: workflow not found"},
		{name: "arbitrary value", input: 42, want: "Error: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag := f.FormatError(tt.input)
			assert.True(t, frag.IsError)
			assert.Equal(t, tt.want, frag.Text)
			assert.False(t, frag.IsChunked, "errors bypass the chunking pipeline")
			assert.Nil(t, frag.Truncation)
		})
	}
}

func TestFormat_NonSerializableLeavesBecomeNull(t *testing.T) {
	f := NewFormatter(DefaultLimits())

	// A channel has no JSON representation; normalization replaces it with
	// null instead of failing the whole response.
	fragments := f.Format(map[string]any{"ch": make(chan int), "ok": true}, Options{})

	require.Len(t, fragments, 1)
	assert.False(t, fragments[0].IsError)
	assert.Contains(t, fragments[0].Text, `"ch":null`)
}

func TestFormat_TypedValueTruncated(t *testing.T) {
	type runRecord struct {
		ID     string         `json:"id"`
		Status string         `json:"status"`
		Data   map[string]any `json:"data,omitempty"`
	}

	runs := make([]any, 500)
	for i := range runs {
		runs[i] = map[string]any{"node": fmt.Sprintf("Node %d", i)}
	}
	record := &runRecord{
		ID:     "exec-1",
		Status: "success",
		Data:   map[string]any{"resultData": map[string]any{"runData": runs}},
	}

	f := NewFormatter(Limits{MaxArrayItems: 10})
	fragments := f.Format(record, Options{})

	require.Len(t, fragments, 1)
	rec := fragments[0].Truncation
	require.NotNil(t, rec, "typed payloads are bounded like decoded JSON")
	assert.True(t, rec.WasTruncated)
	assert.Equal(t, 490, rec.ItemsOmitted)
	assert.Contains(t, rec.Reason, "Array size exceeded maximum of 10 items")
	assert.Contains(t, fragments[0].Text, "... and 490 more items")
	assert.Contains(t, fragments[0].Text, `"id":"exec-1"`)
}

func TestFormat_TypedSliceChunkedWithinSizeBound(t *testing.T) {
	type runRecord struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	records := make([]runRecord, 50)
	for i := range records {
		records[i] = runRecord{ID: fmt.Sprintf("exec-%03d", i), Status: "success"}
	}

	limits := Limits{
		MaxResponseSize: 500,
		MaxChunkSize:    200,
		MaxArrayItems:   AbsoluteMaxArrayItems,
	}
	fragments := NewFormatter(limits).Format(records, Options{})
	require.Greater(t, len(fragments), 1, "a typed slice past the budget must chunk")

	for i, frag := range fragments {
		assert.True(t, frag.IsChunked, "fragment %d", i)
		assert.LessOrEqual(t, len(frag.Text), limits.MaxChunkSize, "fragment %d over the chunk budget", i)
	}

	tok, err := DecodeToken(fragments[len(fragments)-1].ContinuationToken)
	require.NoError(t, err)
	assert.Equal(t, TokenKindSequence, tok.Kind)
	assert.Equal(t, 50, tok.Total)
}

func TestQuickFormat(t *testing.T) {
	fragments := QuickFormat([]any{"a", "b"})
	require.Len(t, fragments, 1)
	assert.Equal(t, `["a","b"]`, fragments[0].Text)

	frag := QuickFormatError("boom")
	assert.True(t, frag.IsError)
}
