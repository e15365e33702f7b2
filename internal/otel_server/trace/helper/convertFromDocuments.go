package helper

import (
	"fmt"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/client"
	spanModel "github.com/Avi18971911/tracegraph/internal/otel_server/trace/model"
)

func ConvertFromDocuments(res []map[string]interface{}) ([]spanModel.Span, error) {
	var spans []spanModel.Span
	for _, hit := range res {
		doc := spanModel.Span{}

		id, ok := hit["_id"].(string)
		if ok {
			doc.Id = id
		}

		spanId, ok := hit["span_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert span_id to string %s", hit["span_id"])
		}
		doc.SpanID = spanId

		parentSpanId, ok := hit["parent_span_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert parent_span_id to string %s", hit["parent_span_id"])
		}
		doc.ParentSpanID = parentSpanId

		traceId, ok := hit["trace_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert trace_id to string %s", hit["trace_id"])
		}
		doc.TraceID = traceId

		// the service name is optional on a stored span
		serviceName, ok := hit["service_name"].(string)
		if ok {
			doc.ServiceName = serviceName
		}

		startTime, ok := hit["start_time"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert start_time to string %s", hit["start_time"])
		}
		startTimeParsed, err := client.NormalizeTimestampToNanoseconds(startTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start_time to time.Time: %w", err)
		}
		doc.StartTime = startTimeParsed

		endTime, ok := hit["end_time"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert end_time to string %s", hit["end_time"])
		}
		endTimeParsed, err := client.NormalizeTimestampToNanoseconds(endTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time to time.Time: %w", err)
		}
		doc.EndTime = endTimeParsed

		actionName, ok := hit["action_name"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert action_name to string %s", hit["action_name"])
		}
		doc.ActionName = actionName

		spanKind, ok := hit["span_kind"].(string)
		if ok {
			doc.SpanKind = spanKind
		}

		if attributes, ok := hit["attributes"].(map[string]interface{}); ok {
			doc.Attributes = typeAttributes(attributes)
		}

		if status, ok := hit["status"].(map[string]interface{}); ok {
			doc.Status = typeStatus(status)
		}

		if events, ok := hit["events"].([]interface{}); ok {
			doc.Events = make([]spanModel.SpanEvent, 0, len(events))
			for _, event := range events {
				typedEvent, err := typeEvent(event)
				if err != nil {
					return nil, err
				}
				doc.Events = append(doc.Events, typedEvent)
			}
		}

		spans = append(spans, doc)
	}
	return spans, nil
}

func typeEvent(event interface{}) (spanModel.SpanEvent, error) {
	eventMap, ok := event.(map[string]interface{})
	if !ok {
		return spanModel.SpanEvent{}, fmt.Errorf("failed to convert event to map[string]interface{} %v", event)
	}
	eventName, _ := eventMap["name"].(string)
	eventAttributes, _ := eventMap["attributes"].(map[string]interface{})
	eventTimestamp, ok := eventMap["timestamp"].(string)
	if !ok {
		return spanModel.SpanEvent{}, fmt.Errorf("failed to convert event timestamp to string %v", eventMap["timestamp"])
	}
	eventTimestampParsed, err := client.NormalizeTimestampToNanoseconds(eventTimestamp)
	if err != nil {
		return spanModel.SpanEvent{}, fmt.Errorf("failed to parse event timestamp to time.Time: %w", err)
	}
	return spanModel.SpanEvent{
		Name:       eventName,
		Attributes: typeAttributes(eventAttributes),
		Timestamp:  eventTimestampParsed,
	}, nil
}

func typeAttributes(attributes map[string]interface{}) map[string]string {
	typedAttributes := make(map[string]string)
	for k, v := range attributes {
		typedAttributes[k] = fmt.Sprintf("%v", v)
	}
	return typedAttributes
}

func typeStatus(status map[string]interface{}) spanModel.Status {
	message, _ := status["message"].(string)
	code, _ := status["code"].(string)
	return spanModel.Status{
		Message: message,
		Code:    spanModel.StatusCode(code),
	}
}
