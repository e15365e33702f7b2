package frame

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

const (
	TraceIDField       = "traceID"
	SpanIDField        = "spanID"
	ParentSpanIDField  = "parentSpanID"
	OperationNameField = "operationName"
	ServiceNameField   = "serviceName"
	StartTimeField     = "startTime"
	DurationField      = "duration"
)

// FrameRows reads spans out of a trace frame column by column. It satisfies the graph
// service's RowAccessor.
type FrameRows struct {
	traceID       *data.Field
	spanID        *data.Field
	parentSpanID  *data.Field
	operationName *data.Field
	serviceName   *data.Field
	startTime     *data.Field
	duration      *data.Field
	length        int
}

// NewFrameRows looks up the trace columns by name. Numeric columns may also be strings
// holding numbers, including "NaN" and "Infinity".
func NewFrameRows(f *data.Frame) (*FrameRows, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	fr := &FrameRows{}
	columns := []struct {
		name     string
		target   **data.Field
		numeric  bool
		required bool
	}{
		{TraceIDField, &fr.traceID, false, false},
		{SpanIDField, &fr.spanID, false, true},
		{ParentSpanIDField, &fr.parentSpanID, false, true},
		{OperationNameField, &fr.operationName, false, true},
		{ServiceNameField, &fr.serviceName, false, false},
		{StartTimeField, &fr.startTime, true, true},
		{DurationField, &fr.duration, true, true},
	}
	for _, column := range columns {
		field, _ := f.FieldByName(column.name)
		if field == nil {
			if column.required {
				return nil, fmt.Errorf("%w: %s", ErrMissingField, column.name)
			}
			continue
		}
		if !acceptsType(field.Type(), column.numeric) {
			return nil, fmt.Errorf("%w: %s is %s", ErrWrongFieldType, column.name, field.Type())
		}
		*column.target = field
		fr.length = max(fr.length, field.Len())
	}
	return fr, nil
}

func acceptsType(fieldType data.FieldType, numeric bool) bool {
	isString := fieldType == data.FieldTypeString || fieldType == data.FieldTypeNullableString
	if numeric {
		return isString || fieldType.Numeric()
	}
	return isString
}

func (fr *FrameRows) Len() int {
	return fr.length
}

func (fr *FrameRows) RowAt(index int) (*model.Span, bool) {
	if index < 0 || index >= fr.length {
		return nil, false
	}
	startTime, _ := numberAt(fr.startTime, index)
	duration, _ := numberAt(fr.duration, index)
	return &model.Span{
		TraceID:       stringAt(fr.traceID, index),
		SpanID:        stringAt(fr.spanID, index),
		ParentSpanID:  stringAt(fr.parentSpanID, index),
		ServiceName:   stringAt(fr.serviceName, index),
		OperationName: stringAt(fr.operationName, index),
		StartTime:     startTime,
		Duration:      duration,
	}, true
}

// Validate checks that every value of the numeric columns can be read as a number.
func (fr *FrameRows) Validate() error {
	for i := 0; i < fr.length; i++ {
		for _, field := range []*data.Field{fr.startTime, fr.duration} {
			if _, err := numberAt(field, i); err != nil {
				return fmt.Errorf("%w: %s row %d: %w", ErrWrongFieldType, field.Name, i, err)
			}
		}
	}
	return nil
}

func stringAt(field *data.Field, index int) string {
	if field == nil || index >= field.Len() {
		return ""
	}
	value, ok := field.ConcreteAt(index)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// numberAt reads a numeric or numeric-string value. Nulls and missing cells read as 0.
func numberAt(field *data.Field, index int) (float64, error) {
	if field == nil || index >= field.Len() {
		return 0, nil
	}
	value, ok := field.ConcreteAt(index)
	if !ok {
		return 0, nil
	}
	return toFloat(value)
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		// ParseFloat also reads the NaN and Infinity tokens
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("unsupported value %T", value)
}

var (
	ErrNilFrame       = errors.New("no frame provided")
	ErrMissingField   = errors.New("frame is missing a required field")
	ErrWrongFieldType = errors.New("frame field has an unexpected value type")
)
