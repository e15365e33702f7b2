package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

func (a *AugurClientImpl) BulkIndex(
	ctx context.Context,
	metaInfo []MetaMap,
	documentInfo []DocumentMap,
	index *string,
) error {
	body, err := buildBulkBody(metaInfo, documentInfo)
	if err != nil {
		return err
	}

	var res *esapi.Response
	if index != nil && len(*index) > 0 {
		res, err = a.es.Bulk(
			bytes.NewReader(body),
			a.es.Bulk.WithIndex(*index),
			a.es.Bulk.WithContext(ctx),
			a.es.Bulk.WithRefresh(a.refreshRate),
		)
	} else {
		res, err = a.es.Bulk(
			bytes.NewReader(body),
			a.es.Bulk.WithContext(ctx),
			a.es.Bulk.WithRefresh(a.refreshRate),
		)
	}
	if err != nil {
		return fmt.Errorf("error bulk indexing: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}

	var bulkResponse model.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to decode bulk response body: %w", err)
	}
	if bulkResponse.Errors {
		return fmt.Errorf("%w: %s", ErrBulkItemFailed, firstBulkError(bulkResponse))
	}
	return nil
}

func buildBulkBody(metaInfo []MetaMap, documentInfo []DocumentMap) ([]byte, error) {
	var buf bytes.Buffer
	for i, d := range documentInfo {
		var meta MetaMap
		if metaInfo != nil && i < len(metaInfo) {
			meta = metaInfo[i]
		} else {
			// empty meta for bulk index
			meta = MetaMap{"index": map[string]interface{}{}}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("error marshaling meta to bulk index: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		dataJSON, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("error marshaling data to bulk index: %w", err)
		}
		buf.Write(dataJSON)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func firstBulkError(res model.BulkResponse) string {
	for _, item := range res.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Sprintf("id=%s status=%d error=%v", result.ID, result.Status, result.Error)
			}
		}
	}
	return "unknown"
}
