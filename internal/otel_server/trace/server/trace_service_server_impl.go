package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/Avi18971911/tracegraph/internal/db/write_buffer"
	"github.com/Avi18971911/tracegraph/internal/metric"
	"github.com/Avi18971911/tracegraph/internal/otel_server/trace/model"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	common "go.opentelemetry.io/proto/otlp/common/v1"
	resource "go.opentelemetry.io/proto/otlp/resource/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

const (
	unknownServiceName   = "Never Assigned"
	serviceNameAttribute = "service.name"
	errMissingIds        = "spans without a trace ID or span ID were dropped"
)

type TraceServiceServerImpl struct {
	protoTrace.UnimplementedTraceServiceServer
	writeBuffer write_buffer.DatabaseWriteBuffer[model.Span]
	logger      *zap.Logger
}

func NewTraceServiceServerImpl(
	logger *zap.Logger,
	dbWriteBuffer write_buffer.DatabaseWriteBuffer[model.Span],
) TraceServiceServerImpl {
	logger.Info("Creating new TraceServiceServerImpl")
	return TraceServiceServerImpl{
		logger:      logger,
		writeBuffer: dbWriteBuffer,
	}
}

// Export stores every span of the request. Spans without a trace or span ID cannot be
// placed in a graph and are reported back as rejected.
func (tss TraceServiceServerImpl) Export(
	ctx context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var accepted []model.Span
	var rejected int64
	for _, resourceSpans := range req.ResourceSpans {
		serviceName := resourceAttribute(resourceSpans.GetResource(), serviceNameAttribute)
		if serviceName == "" {
			tss.logger.Warn("Service name not found in resource span")
			serviceName = unknownServiceName
		}
		for _, scopeSpans := range resourceSpans.ScopeSpans {
			for _, span := range scopeSpans.Spans {
				if len(span.TraceId) == 0 || len(span.SpanId) == 0 {
					rejected++
					continue
				}
				accepted = append(accepted, toStoredSpan(span, serviceName))
			}
		}
	}

	if len(accepted) > 0 {
		tss.writeBuffer.WriteToBuffer(accepted)
	}
	metric.IngestedSpans.Add(float64(len(accepted)))

	res := &protoTrace.ExportTraceServiceResponse{}
	if rejected > 0 {
		tss.logger.Warn("Rejected spans without trace or span ID", zap.Int64("rejected", rejected))
		metric.RejectedSpans.Add(float64(rejected))
		res.PartialSuccess = &protoTrace.ExportTracePartialSuccess{
			RejectedSpans: rejected,
			ErrorMessage:  errMissingIds,
		}
	}
	return res, nil
}

func resourceAttribute(res *resource.Resource, key string) string {
	for _, attr := range res.GetAttributes() {
		if attr.Key == key {
			return stringValue(attr.Value)
		}
	}
	return ""
}

func toStoredSpan(span *v1.Span, serviceName string) model.Span {
	traceId := hex.EncodeToString(span.TraceId)
	spanId := hex.EncodeToString(span.SpanId)
	return model.Span{
		Id:           generateSpanId(traceId, spanId),
		CreatedAt:    time.Now().UTC(),
		SpanID:       spanId,
		ParentSpanID: hex.EncodeToString(span.ParentSpanId),
		TraceID:      traceId,
		ServiceName:  serviceName,
		StartTime:    fromUnixNano(span.StartTimeUnixNano),
		EndTime:      fromUnixNano(span.EndTimeUnixNano),
		ActionName:   span.Name,
		SpanKind:     span.Kind.String(),
		Attributes:   toAttributeMap(span.Attributes),
		Events:       toEvents(span.Events),
		Status:       getStatus(span),
	}
}

func toEvents(events []*v1.Span_Event) []model.SpanEvent {
	typed := make([]model.SpanEvent, len(events))
	for i, event := range events {
		typed[i] = model.SpanEvent{
			Name:       event.Name,
			Attributes: toAttributeMap(event.Attributes),
			Timestamp:  fromUnixNano(event.TimeUnixNano),
		}
	}
	return typed
}

func toAttributeMap(attributes []*common.KeyValue) map[string]string {
	typed := make(map[string]string, len(attributes))
	for _, attr := range attributes {
		typed[attr.Key] = stringValue(attr.Value)
	}
	return typed
}

// stringValue flattens scalar attribute values. Arrays, maps and bytes are stored empty.
func stringValue(value *common.AnyValue) string {
	switch v := value.GetValue().(type) {
	case *common.AnyValue_StringValue:
		return v.StringValue
	case *common.AnyValue_IntValue:
		return strconv.FormatInt(v.IntValue, 10)
	case *common.AnyValue_DoubleValue:
		return strconv.FormatFloat(v.DoubleValue, 'f', -1, 64)
	case *common.AnyValue_BoolValue:
		return strconv.FormatBool(v.BoolValue)
	}
	return ""
}

func fromUnixNano(nanos uint64) time.Time {
	return time.Unix(0, int64(nanos)).UTC()
}

func getStatus(span *v1.Span) model.Status {
	if span.Status == nil {
		return model.Status{Code: model.UNSET}
	}
	switch span.Status.Code {
	case v1.Status_STATUS_CODE_OK:
		return model.Status{Message: span.Status.Message, Code: model.OK}
	case v1.Status_STATUS_CODE_ERROR:
		return model.Status{Message: span.Status.Message, Code: model.ERROR}
	default:
		return model.Status{Message: span.Status.Message, Code: model.UNSET}
	}
}

// generateSpanId gives a re-exported span the same document ID.
func generateSpanId(traceId string, spanId string) string {
	data := fmt.Sprintf("%s:%s", traceId, spanId)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
