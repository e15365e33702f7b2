// Package app wires configuration, storage, ingestion and the query API into runnable servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Avi18971911/tracegraph/internal/config"
	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/client"
	"github.com/Avi18971911/tracegraph/internal/db/write_buffer"
	"github.com/Avi18971911/tracegraph/internal/event_bus"
	"github.com/Avi18971911/tracegraph/internal/graph/service"
	traceModel "github.com/Avi18971911/tracegraph/internal/otel_server/trace/model"
	traceServer "github.com/Avi18971911/tracegraph/internal/otel_server/trace/server"
	"github.com/Avi18971911/tracegraph/internal/query_server/cache"
	"github.com/Avi18971911/tracegraph/internal/query_server/router"
	"github.com/Avi18971911/tracegraph/internal/query_server/service/trace_graph"
	"github.com/asaskevich/EventBus"
	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
)

type TraceFlushedBus = event_bus.AugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent]

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.IsDebug() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func NewTraceFlushedBus(logger *zap.Logger) TraceFlushedBus {
	return event_bus.NewAugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent](
		EventBus.New(),
		logger,
	)
}

// NewAugurClient connects to Elasticsearch and makes sure the span index exists.
func NewAugurClient(cfg *config.Config, logger *zap.Logger) (client.AugurClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	bs := bootstrapper.NewBootstrapper(
		es,
		cfg.Elasticsearch.BootstrapRetries,
		cfg.Elasticsearch.BootstrapWait,
		logger,
	)
	if err := bs.BootstrapElasticsearch(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap elasticsearch: %w", err)
	}
	return client.NewAugurClientImpl(es, client.Wait), nil
}

type IngestServer struct {
	srv         *grpc.Server
	writeBuffer write_buffer.DatabaseWriteBuffer[traceModel.Span]
	addr        string
	logger      *zap.Logger
}

func NewIngestServer(
	cfg *config.Config,
	ac client.AugurClient,
	bus TraceFlushedBus,
	logger *zap.Logger,
) *IngestServer {
	traceDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[traceModel.Span](
		ac,
		bootstrapper.SpanIndexName,
		cfg.WriteBuffer.Size,
		func(span traceModel.Span) string { return span.TraceID },
		bus,
		logger,
	)

	srv := grpc.NewServer()
	protoTrace.RegisterTraceServiceServer(srv, traceServer.NewTraceServiceServerImpl(logger, traceDBBuffer))
	return &IngestServer{
		srv:         srv,
		writeBuffer: traceDBBuffer,
		addr:        cfg.App.OtlpAddr,
		logger:      logger,
	}
}

// Run serves OTLP traces until ctx is done, then flushes whatever is still buffered.
func (is *IngestServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", is.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", is.addr, err)
	}

	go func() {
		<-ctx.Done()
		is.srv.GracefulStop()
	}()

	is.logger.Info("gRPC service started, listening for OpenTelemetry traces...", zap.String("addr", is.addr))
	if err := is.srv.Serve(listener); err != nil {
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := is.writeBuffer.Flush(flushCtx); err != nil {
		return fmt.Errorf("failed to flush remaining spans: %w", err)
	}
	return nil
}

type QueryServer struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewQueryServer builds the HTTP API. Cached graphs are dropped when bus reports new spans
// for their trace and otherwise expire after cache.ttl.
func NewQueryServer(
	cfg *config.Config,
	ac client.AugurClient,
	bus TraceFlushedBus,
	logger *zap.Logger,
) (*QueryServer, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.Cache.NumCounters,
		MaxCost:     cfg.Cache.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create graph cache: %w", err)
	}
	graphCache := cache.NewGraphCacheImpl(ristrettoCache, cfg.Cache.TTL)
	if err := cache.InvalidateOnFlush(graphCache, bus); err != nil {
		return nil, fmt.Errorf("failed to subscribe graph cache to flushes: %w", err)
	}

	tgs := trace_graph.NewTraceGraphService(
		ac,
		graphCache,
		service.NewGraphBuilderService(logger),
		cfg.Query.Timeout,
		cfg.Query.MaxSpans,
		logger,
	)
	return &QueryServer{
		srv: &http.Server{
			Addr:    cfg.App.QueryAddr,
			Handler: router.CreateRouter(tgs, logger),
		},
		logger: logger,
	}, nil
}

func (qs *QueryServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := qs.srv.Shutdown(shutdownCtx); err != nil {
			qs.logger.Error("Failed to shut down query server", zap.Error(err))
		}
	}()

	qs.logger.Info("Starting query server", zap.String("addr", qs.srv.Addr))
	if err := qs.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}
