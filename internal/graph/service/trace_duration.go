package service

import (
	"math"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
)

// TraceDuration returns the time between the earliest span start and the latest span end.
// An empty trace yields -Inf.
func TraceDuration(rows RowAccessor) float64 {
	minStart := math.Inf(1)
	maxEnd := 0.0
	forEachRow(rows, func(span *model.Span) {
		minStart = math.Min(minStart, span.StartTime)
		maxEnd = math.Max(maxEnd, span.StartTime+span.Duration)
	})
	return maxEnd - minStart
}
