package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type MetaMap map[string]interface{}
type DocumentMap map[string]interface{}

func ToMetaAndDataMap[T any](values []T) ([]MetaMap, []DocumentMap, error) {
	dataMap := make([]DocumentMap, len(values))
	metaMap := make([]MetaMap, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		var mapStruct map[string]interface{}
		if err := json.Unmarshal(data, &mapStruct); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal JSON to map: %w", err)
		}

		if id, ok := mapStruct["_id"]; ok {
			delete(mapStruct, "_id")
			metaMap[i] = MetaMap{"index": map[string]interface{}{"_id": id}}
		} else {
			metaMap[i] = MetaMap{"index": map[string]interface{}{}}
		}
		dataMap[i] = mapStruct
	}
	return metaMap, dataMap, nil
}

// NormalizeTimestampToNanoseconds parses an RFC 3339 timestamp, padding or truncating the
// fractional seconds to nanosecond precision.
func NormalizeTimestampToNanoseconds(timestamp string) (time.Time, error) {
	isUTC := strings.HasSuffix(timestamp, "Z")
	if !isUTC {
		// offsets such as +02:00 are left to the standard layout
		return time.Parse(time.RFC3339Nano, timestamp)
	}
	timestamp = strings.TrimSuffix(timestamp, "Z")

	if !strings.Contains(timestamp, ".") {
		timestamp += ".000000000"
	} else {
		parts := strings.SplitN(timestamp, ".", 2)
		fractionalPart := parts[1]

		// 9 digits (nanosecond)
		if len(fractionalPart) > 9 {
			fractionalPart = fractionalPart[:9]
		} else if len(fractionalPart) < 9 {
			fractionalPart = fractionalPart + strings.Repeat("0", 9-len(fractionalPart))
		}

		timestamp = parts[0] + "." + fractionalPart
	}

	layout := "2006-01-02T15:04:05.000000000Z"
	return time.Parse(layout, timestamp+"Z")
}

var (
	ErrBulkItemFailed = errors.New("one or more bulk items failed")
)
