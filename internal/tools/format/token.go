package format

import (
	"encoding/base64"
	"fmt"
)

// Token kinds carried by a continuation token.
const (
	TokenKindSequence = "sequence"
	TokenKindMapping  = "mapping"
)

// Token describes what remains unsent after a multi-fragment response.
// It carries no resumption mechanism: the server never re-fetches data to
// satisfy a token, it only tells the client what the full value contained.
type Token struct {
	// Kind is the shape of the chunked value: "sequence" or "mapping".
	Kind string `json:"kind"`

	// Total is the element count of a chunked sequence.
	Total int `json:"total,omitempty"`

	// Keys lists the keys of a chunked mapping, in the order the chunker
	// walked them.
	Keys []string `json:"keys,omitempty"`
}

// EncodeToken renders a token as an opaque string safe to embed in a
// fragment. Transports must not interpret it.
func EncodeToken(t Token) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode continuation token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeToken parses an opaque continuation token. It exists for clients
// and tests; the formatter itself never resumes a transfer.
func DecodeToken(s string) (Token, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Token{}, fmt.Errorf("decode continuation token: %w", err)
	}
	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return Token{}, fmt.Errorf("decode continuation token: %w", err)
	}
	return t, nil
}
