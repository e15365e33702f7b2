//go:build integration

package elasticsearch

import (
	"fmt"
	"strings"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/bootstrapper"
	"github.com/elastic/go-elasticsearch/v8"
)

func deleteAllDocuments(es *elasticsearch.Client) error {
	query := `{"query": {"match_all": {}}}`
	res, err := es.DeleteByQuery(
		[]string{bootstrapper.SpanIndexName},
		strings.NewReader(query),
		es.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return fmt.Errorf("failed to delete documents by query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("failed to delete documents in index %s: %s", bootstrapper.SpanIndexName, res.String())
	}
	return nil
}
