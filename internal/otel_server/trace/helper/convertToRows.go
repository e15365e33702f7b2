package helper

import (
	"time"

	graphModel "github.com/Avi18971911/tracegraph/internal/graph/model"
	spanModel "github.com/Avi18971911/tracegraph/internal/otel_server/trace/model"
)

// ConvertToRows flattens stored spans into graph rows measured in milliseconds since the epoch.
func ConvertToRows(spans []spanModel.Span) []graphModel.Span {
	rows := make([]graphModel.Span, len(spans))
	for i, span := range spans {
		rows[i] = graphModel.Span{
			TraceID:       span.TraceID,
			SpanID:        span.SpanID,
			ParentSpanID:  span.ParentSpanID,
			ServiceName:   span.ServiceName,
			OperationName: span.ActionName,
			StartTime:     toMilliseconds(span.StartTime.UnixNano()),
			Duration:      toMilliseconds(span.EndTime.Sub(span.StartTime).Nanoseconds()),
		}
	}
	return rows
}

func toMilliseconds(nanos int64) float64 {
	return float64(nanos) / float64(time.Millisecond)
}
