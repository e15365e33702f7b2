package main

import (
	"log"

	"github.com/Avi18971911/tracegraph/internal/app"
	"github.com/Avi18971911/tracegraph/internal/config"
	"go.uber.org/zap"
)

// @title Trace Graph API
// @version 1.0
// @description Converts distributed traces into node graphs of per-span durations.

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

	// no ingestion runs in this process, so cached graphs only leave the cache through cache.ttl
	queryServer, err := app.NewQueryServer(cfg, ac, app.NewTraceFlushedBus(logger), logger)
	if err != nil {
		logger.Fatal("Failed to create query server", zap.Error(err))
	}
	if err := queryServer.Run(ctx); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
