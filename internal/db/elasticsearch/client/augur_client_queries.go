package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/model"
)

func (a *AugurClientImpl) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]map[string]interface{}, error) {
	res, err := a.es.Search(
		a.es.Search.WithContext(ctx),
		a.es.Search.WithIndex(indices...),
		a.es.Search.WithBody(strings.NewReader(query)),
		a.es.Search.WithSize(getQuerySize(queryResultSize)),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var esResponse model.EsResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	results := make([]map[string]interface{}, 0, len(esResponse.Hits.HitArray))
	for _, hit := range esResponse.Hits.HitArray {
		if hit.Source == nil {
			hit.Source = map[string]interface{}{}
		}
		hit.Source["_id"] = hit.ID
		results = append(results, hit.Source)
	}

	return results, nil
}

func getQuerySize(querySize *int) int {
	if querySize == nil {
		return SearchResultSize
	} else {
		return *querySize
	}
}
