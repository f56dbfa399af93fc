package format

import (
	"github.com/samber/lo"
)

// DefaultPageLimit is the page size used when no limit is requested.
const DefaultPageLimit = 10

// PageOptions selects a window of a sequence. A zero Limit means "use the
// default"; a negative Limit is clamped to 1. Offsets outside the sequence
// are clamped into range.
type PageOptions struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Window describes the position of a page within the full sequence.
type Window struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	HasMore    bool `json:"hasMore"`
	NextOffset *int `json:"nextOffset"`
	PrevOffset *int `json:"prevOffset"`
}

// Paginate returns the offset/limit window of items together with its
// position metadata. It is pure and deterministic: the same inputs always
// produce the same window, and the input slice is never modified.
func Paginate[T any](items []T, opts PageOptions) ([]T, Window) {
	total := len(items)

	limit := opts.Limit
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit < 0:
		limit = 1
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	// Copy the window so callers can modify the page without aliasing the
	// source sequence.
	view := lo.Slice(items, offset, offset+limit)
	windowed := make([]T, len(view))
	copy(windowed, view)

	window := Window{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: offset+limit < total,
	}
	if window.HasMore {
		next := offset + limit
		window.NextOffset = &next
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		window.PrevOffset = &prev
	}

	return windowed, window
}
