package main

import (
	"log"

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

	ingestServer := app.NewIngestServer(cfg, ac, app.NewTraceFlushedBus(logger), logger)
	if err := ingestServer.Run(ctx); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}
