package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atmaker/n8n-mcp-server/internal/tools/format"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"name": "daily-sync", "count": float64(3)}

	assert.Equal(t, "daily-sync", StringArg(args, "name"))
	assert.Equal(t, "", StringArg(args, "missing"))
	assert.Equal(t, "", StringArg(args, "count"), "non-string value yields empty")
}

func TestBoolArg(t *testing.T) {
	args := map[string]any{"active": true, "name": "x"}

	assert.True(t, BoolArg(args, "active"))
	assert.False(t, BoolArg(args, "missing"))
	assert.False(t, BoolArg(args, "name"))
}

func TestIntArg(t *testing.T) {
	args := map[string]any{
		"limit":  float64(25),
		"offset": 7,
		"name":   "x",
	}

	assert.Equal(t, 25, IntArg(args, "limit", 0), "JSON float64 accepted")
	assert.Equal(t, 7, IntArg(args, "offset", 0), "native int accepted")
	assert.Equal(t, 10, IntArg(args, "missing", 10))
	assert.Equal(t, 10, IntArg(args, "name", 10), "non-numeric yields fallback")
}

func TestPageOptionsFromArgs(t *testing.T) {
	opts := PageOptionsFromArgs(map[string]any{
		"limit":  float64(5),
		"offset": float64(20),
	})
	assert.Equal(t, format.PageOptions{Offset: 20, Limit: 5}, opts)

	// Missing values stay zero; the paginator applies defaults.
	assert.Equal(t, format.PageOptions{}, PageOptionsFromArgs(map[string]any{}))
}

func TestAddPaginationParams(t *testing.T) {
	assert.Len(t, AddPaginationParams(), 2)
}
