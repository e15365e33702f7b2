package service

import "github.com/Avi18971911/tracegraph/internal/graph/model"

// RowAccessor gives random access to the rows of a trace by zero-based position.
// It returns false for any index past the last row.
type RowAccessor interface {
	RowAt(index int) (*model.Span, bool)
}

// RowAccessorFunc adapts a plain function to a RowAccessor.
type RowAccessorFunc func(index int) (*model.Span, bool)

func (f RowAccessorFunc) RowAt(index int) (*model.Span, bool) {
	return f(index)
}

// SliceRows is a RowAccessor over an in-memory slice of spans.
type SliceRows []model.Span

func (s SliceRows) RowAt(index int) (*model.Span, bool) {
	if index < 0 || index >= len(s) {
		return nil, false
	}
	return &s[index], true
}

func forEachRow(rows RowAccessor, fn func(span *model.Span)) {
	for i := 0; ; i++ {
		span, ok := rows.RowAt(i)
		if !ok || span == nil {
			return
		}
		fn(span)
	}
}
