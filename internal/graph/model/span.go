package model

// Span is a single row of a flat trace table. Times are in milliseconds.
type Span struct {
	TraceID       string  `json:"trace_id"`
	SpanID        string  `json:"span_id"`
	ParentSpanID  string  `json:"parent_span_id"` // empty for a root span
	ServiceName   string  `json:"service_name,omitempty"`
	OperationName string  `json:"operation_name"`
	StartTime     float64 `json:"start_time"`
	Duration      float64 `json:"duration"`
}

// SpanIndexEntry links a span to the IDs of the spans that name it as their parent.
// Span is nil when the ID has only been seen as a parent reference.
type SpanIndexEntry struct {
	Span     *Span
	Children []string
}

type Interval struct {
	Start float64
	End   float64
}
