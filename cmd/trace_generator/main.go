// Command trace_generator emits synthetic nested traces to an OTLP gRPC endpoint so the
// ingestion and query servers have something to draw.
package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/Avi18971911/tracegraph/internal/app"
	"github.com/Avi18971911/tracegraph/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const generatorInterval = 2 * time.Second

var services = []string{"frontend", "cart", "checkout"}

func initTracers(ctx context.Context, endpoint string) (map[string]trace.Tracer, func(), error) {
	tracers := make(map[string]trace.Tracer, len(services))
	var providers []*sdktrace.TracerProvider
	for _, serviceName := range services {
		exporter, err := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, nil, err
		}
		res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
		if err != nil {
			return nil, nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		providers = append(providers, tp)
		tracers[serviceName] = tp.Tracer(serviceName)
	}
	return tracers, func() {
		for _, tp := range providers {
			_ = tp.Shutdown(context.Background())
		}
	}, nil
}

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

	ctx, stop := app.SignalContext()
	defer stop()

	tracers, shutdown, err := initTracers(ctx, otlpEndpoint(cfg.App.OtlpAddr))
	if err != nil {
		logger.Fatal("Failed to create trace exporters", zap.Error(err))
	}
	defer shutdown()

	ticker := time.NewTicker(generatorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			traceId := emitCheckout(ctx, tracers)
			logger.Info("Emitted trace", zap.String("trace_id", traceId))
		}
	}
}

// emitCheckout produces a root span with one sequential and two overlapping children.
func emitCheckout(ctx context.Context, tracers map[string]trace.Tracer) string {
	ctx, root := tracers["frontend"].Start(ctx, "POST /checkout")
	defer root.End()
	root.SetAttributes(attribute.String("operation.id", randomString()))

	cartCtx, cart := tracers["cart"].Start(ctx, "load cart")
	work(5)
	_, redis := tracers["cart"].Start(cartCtx, "HGET")
	work(10)
	redis.End()
	cart.End()

	done := make(chan struct{}, 2)
	for _, name := range []string{"reserve stock", "charge card"} {
		go func(name string) {
			_, span := tracers["checkout"].Start(ctx, name)
			work(20)
			span.End()
			done <- struct{}{}
		}(name)
	}
	<-done
	<-done
	return root.SpanContext().TraceID().String()
}

func work(maxMillis int) {
	time.Sleep(time.Duration(1+rand.Intn(maxMillis)) * time.Millisecond)
}

func otlpEndpoint(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func randomString() string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 10)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
