package bootstrapper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

type Bootstrapper struct {
	esClient *elasticsearch.Client
	logger   *zap.Logger
	retries  int
	waitTime time.Duration
}

func NewBootstrapper(
	esClient *elasticsearch.Client,
	retries int,
	waitTime time.Duration,
	logger *zap.Logger,
) *Bootstrapper {
	return &Bootstrapper{
		esClient: esClient,
		logger:   logger,
		retries:  retries,
		waitTime: waitTime,
	}
}

func (bs *Bootstrapper) BootstrapElasticsearch() error {
	if err := bs.waitForElasticsearch(bs.retries, bs.waitTime); err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	if err := bs.createIndex(SpanIndexName, spanIndex); err != nil {
		return fmt.Errorf("error creating index span template: %w", err)
	}

	return nil
}

func (bs *Bootstrapper) waitForElasticsearch(maxRetries int, delay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		res, err := bs.esClient.Info()
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				bs.logger.Info("Elasticsearch is available")
				return nil
			}
		}
		bs.logger.Warn(
			"Elasticsearch not available, retrying...",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
		)

		time.Sleep(delay)
	}

	return fmt.Errorf("elasticsearch is not available after %d attempts", maxRetries)
}

func (bs *Bootstrapper) createIndex(indexName string, index map[string]interface{}) error {
	exists, err := bs.esClient.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("error checking index during bootstrap %s: %w", indexName, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		bs.logger.Info("Index already exists", zap.String("index_name", indexName))
		return nil
	}

	body, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("error marshaling index input during bootstrap: %w", err)
	}

	res, err := bs.esClient.Indices.Create(
		indexName,
		bs.esClient.Indices.Create.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return fmt.Errorf("error creating index during bootstrap %s: %w", indexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for index %s: %s", indexName, res.String())
	}

	bs.logger.Info("Successfully created index", zap.String("index_name", indexName))
	return nil
}
