package service

import "github.com/Avi18971911/tracegraph/internal/graph/model"

// BuildSpanIndex scans the rows once and links every span ID to its row and to the IDs of
// its children. A parent that never appears as a row keeps a nil Span.
func BuildSpanIndex(rows RowAccessor) map[string]*model.SpanIndexEntry {
	index := make(map[string]*model.SpanIndexEntry)
	forEachRow(rows, func(span *model.Span) {
		curEntry, ok := index[span.SpanID]
		if !ok {
			curEntry = &model.SpanIndexEntry{Children: []string{}}
			index[span.SpanID] = curEntry
		}
		curEntry.Span = span

		if span.ParentSpanID != "" {
			parentEntry, ok := index[span.ParentSpanID]
			if !ok {
				parentEntry = &model.SpanIndexEntry{Children: []string{}}
				index[span.ParentSpanID] = parentEntry
			}
			parentEntry.Children = append(parentEntry.Children, span.SpanID)
		}
	})
	return index
}
