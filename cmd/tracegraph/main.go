// Command tracegraph runs OTLP ingestion and the query API in one process, sharing the
// flush bus so cached graphs are invalidated as soon as new spans are stored.
package main

import (
	"context"
	"log"
	"sync"

	"github.com/Avi18971911/tracegraph/internal/app"
	"github.com/Avi18971911/tracegraph/internal/config"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ac, err := app.NewAugurClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", zap.Error(err))
	}

	ctx, stop := app.SignalContext()
	defer stop()

	bus := app.NewTraceFlushedBus(logger)
	queryServer, err := app.NewQueryServer(cfg, ac, bus, logger)
	if err != nil {
		logger.Fatal("Failed to create query server", zap.Error(err))
	}
	ingestServer := app.NewIngestServer(cfg, ac, bus, logger)

	runners := map[string]func(ctx context.Context) error{
		"ingest": ingestServer.Run,
		"query":  queryServer.Run,
	}
	var wg sync.WaitGroup
	for name, run := range runners {
		wg.Add(1)
		go func(name string, run func(ctx context.Context) error) {
			defer wg.Done()
			if err := run(ctx); err != nil {
				logger.Error("Server stopped with error", zap.String("server", name), zap.Error(err))
				stop()
			}
		}(name, run)
	}
	wg.Wait()
	bus.WaitAsync()
}
