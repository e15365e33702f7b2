package helper

import (
	"testing"
	"time"

	graphModel "github.com/Avi18971911/tracegraph/internal/graph/model"
	spanModel "github.com/Avi18971911/tracegraph/internal/otel_server/trace/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFromDocuments(t *testing.T) {
	t.Run("Converts a stored span document", func(t *testing.T) {
		docs := []map[string]interface{}{
			{
				"_id":            "doc-1",
				"span_id":        "b7ad6b7169203331",
				"parent_span_id": "",
				"trace_id":       "0af7651916cd43dd8448eb211c80319c",
				"service_name":   "frontend",
				"start_time":     "2024-10-01T12:00:00.5Z",
				"end_time":       "2024-10-01T12:00:01.75Z",
				"action_name":    "GET /cart",
				"span_kind":      "SPAN_KIND_SERVER",
				"attributes":     map[string]interface{}{"http.status_code": 200.0},
				"status":         map[string]interface{}{"code": "ok", "message": ""},
				"events": []interface{}{
					map[string]interface{}{
						"name":       "cache miss",
						"attributes": map[string]interface{}{},
						"timestamp":  "2024-10-01T12:00:00.6Z",
					},
				},
			},
		}
		spans, err := ConvertFromDocuments(docs)
		require.NoError(t, err)
		require.Len(t, spans, 1)
		span := spans[0]
		assert.Equal(t, "doc-1", span.Id)
		assert.Equal(t, "b7ad6b7169203331", span.SpanID)
		assert.Equal(t, "frontend", span.ServiceName)
		assert.Equal(t, "GET /cart", span.ActionName)
		assert.Equal(t, "200", span.Attributes["http.status_code"])
		assert.Equal(t, spanModel.OK, span.Status.Code)
		assert.Equal(t, 1250*time.Millisecond, span.EndTime.Sub(span.StartTime))
		require.Len(t, span.Events, 1)
		assert.Equal(t, "cache miss", span.Events[0].Name)
	})

	t.Run("Returns error if the span ID is missing", func(t *testing.T) {
		docs := []map[string]interface{}{{"parent_span_id": ""}}
		_, err := ConvertFromDocuments(docs)
		assert.Error(t, err)
	})

	t.Run("Returns error for an unparsable start time", func(t *testing.T) {
		docs := []map[string]interface{}{
			{
				"span_id":        "a",
				"parent_span_id": "",
				"trace_id":       "t",
				"start_time":     "yesterday",
				"end_time":       "2024-10-01T12:00:01Z",
				"action_name":    "GET",
			},
		}
		_, err := ConvertFromDocuments(docs)
		assert.Error(t, err)
	})
}

func TestConvertToRows(t *testing.T) {
	t.Run("Measures rows in milliseconds", func(t *testing.T) {
		start := time.Unix(0, 1_000_000_000)
		spans := []spanModel.Span{
			{
				TraceID:      "t",
				SpanID:       "a",
				ParentSpanID: "p",
				ServiceName:  "cart",
				ActionName:   "GetCart",
				StartTime:    start,
				EndTime:      start.Add(2500 * time.Microsecond),
			},
		}
		rows := ConvertToRows(spans)
		assert.Equal(t, []graphModel.Span{
			{
				TraceID:       "t",
				SpanID:        "a",
				ParentSpanID:  "p",
				ServiceName:   "cart",
				OperationName: "GetCart",
				StartTime:     1000,
				Duration:      2.5,
			},
		}, rows)
	})
}
