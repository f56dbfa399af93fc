package format

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// decodeFragments unmarshals each payload and concatenates the contained
// elements, mirroring what a client reassembling a transfer would do.
func decodeSequenceFragments(t *testing.T, payloads []string) []any {
	t.Helper()
	var out []any
	for i, p := range payloads {
		var group []any
		if err := json.Unmarshal([]byte(p), &group); err != nil {
			t.Fatalf("payload %d is not a JSON array: %v", i, err)
		}
		out = append(out, group...)
	}
	return out
}

func decodeMappingFragments(t *testing.T, payloads []string) map[string]any {
	t.Helper()
	out := map[string]any{}
	for i, p := range payloads {
		var group map[string]any
		if err := json.Unmarshal([]byte(p), &group); err != nil {
			t.Fatalf("payload %d is not a JSON object: %v", i, err)
		}
		for k, v := range group {
			if _, dup := out[k]; dup {
				t.Fatalf("key %q appears in more than one payload", k)
			}
			out[k] = v
		}
	}
	return out
}

func TestChunk_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "null"},
		{name: "string", value: "hello", want: `"hello"`},
		{name: "number", value: 42.0, want: "42"},
		{name: "bool", value: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloads, token, err := Chunk(tt.value, 1000)
			if err != nil {
				t.Fatalf("Chunk() error = %v", err)
			}
			if len(payloads) != 1 || payloads[0] != tt.want {
				t.Errorf("Chunk() = %v, want [%s]", payloads, tt.want)
			}
			if token != "" {
				t.Errorf("scalar produced a token: %q", token)
			}
		})
	}
}

func TestChunk_SmallValueSingleFragment(t *testing.T) {
	payloads, token, err := Chunk([]any{"a", "b", "c"}, 1000)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("len = %d, want 1", len(payloads))
	}
	if token != "" {
		t.Error("single fragment must not carry a token")
	}
}

func TestChunk_SequenceRoundTrip(t *testing.T) {
	seq := make([]any, 200)
	for i := range seq {
		seq[i] = map[string]any{"id": fmt.Sprintf("row-%04d", i), "n": float64(i)}
	}

	payloads, token, err := Chunk(seq, 500)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(payloads) < 2 {
		t.Fatalf("len = %d, want several fragments", len(payloads))
	}

	// Size bound holds for every payload.
	for i, p := range payloads {
		if len(p) > 500 {
			t.Errorf("payload %d has %d bytes, over the 500 byte budget", i, len(p))
		}
	}

	// No element lost, duplicated or reordered.
	got := decodeSequenceFragments(t, payloads)
	if !reflect.DeepEqual(got, seq) {
		t.Error("concatenated fragments do not reconstruct the input")
	}

	tok, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}
	if tok.Kind != TokenKindSequence || tok.Total != 200 {
		t.Errorf("token = %+v, want sequence/200", tok)
	}
}

func TestChunk_MappingRoundTrip(t *testing.T) {
	m := map[string]any{}
	for i := 0; i < 80; i++ {
		m[fmt.Sprintf("key-%02d", i)] = strings.Repeat("x", 30)
	}

	payloads, token, err := Chunk(m, 400)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(payloads) < 2 {
		t.Fatalf("len = %d, want several fragments", len(payloads))
	}
	for i, p := range payloads {
		if len(p) > 400 {
			t.Errorf("payload %d has %d bytes, over budget", i, len(p))
		}
	}

	got := decodeMappingFragments(t, payloads)
	want := map[string]any{}
	for k, v := range m {
		want[k] = v
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("merged fragments do not reconstruct the mapping")
	}

	tok, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}
	if tok.Kind != TokenKindMapping || len(tok.Keys) != 80 {
		t.Errorf("token = %+v, want mapping with 80 keys", tok)
	}
	if !stringsAreSorted(tok.Keys) {
		t.Error("token keys should be in the chunker's walk order")
	}
}

func stringsAreSorted(keys []string) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			return false
		}
	}
	return true
}

func TestChunk_OversizedPairIsolated(t *testing.T) {
	m := map[string]any{
		"small-1": "a",
		"huge":    []any{makeArray(500)},
		"small-2": "b",
	}

	payloads, _, err := Chunk(m, 300)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}

	var isolated string
	for _, p := range payloads {
		if strings.Contains(p, `"huge"`) {
			isolated = p
		}
	}
	if isolated == "" {
		t.Fatal("oversized pair missing from the payloads")
	}

	var group map[string]any
	if err := json.Unmarshal([]byte(isolated), &group); err != nil {
		t.Fatalf("isolated payload is not an object: %v", err)
	}
	if len(group) != 1 {
		t.Errorf("oversized pair shares a payload with %d other pairs", len(group)-1)
	}
	// The pair was truncated rather than split.
	inner := group["huge"].([]any)[0].([]any)
	if len(inner) != DefaultMaxArrayItems+1 {
		t.Errorf("inner len = %d, want %d plus marker", len(inner), DefaultMaxArrayItems+1)
	}
}

func TestChunk_LargeArrayScenario(t *testing.T) {
	// 1000 elements of ~100 bytes with a 20000 byte budget.
	seq := make([]any, 1000)
	for i := range seq {
		seq[i] = map[string]any{
			"id":      fmt.Sprintf("exec-%04d", i),
			"payload": strings.Repeat("d", 60),
		}
	}

	payloads, token, err := Chunk(seq, 20000)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(payloads) <= 1 {
		t.Errorf("len = %d, want more than one fragment", len(payloads))
	}
	if token == "" {
		t.Error("multi-fragment result must carry a token")
	}
}

func TestChunk_EmptyComposites(t *testing.T) {
	payloads, token, err := Chunk([]any{}, 100)
	if err != nil || len(payloads) != 1 || payloads[0] != "[]" || token != "" {
		t.Errorf("Chunk([]) = (%v, %q, %v)", payloads, token, err)
	}

	payloads, token, err = Chunk(map[string]any{}, 100)
	if err != nil || len(payloads) != 1 || payloads[0] != "{}" || token != "" {
		t.Errorf("Chunk({}) = (%v, %q, %v)", payloads, token, err)
	}
}
