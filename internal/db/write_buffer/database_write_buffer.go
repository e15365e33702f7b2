package write_buffer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/client"
	"github.com/Avi18971911/tracegraph/internal/event_bus"
	"go.uber.org/zap"
)

const DefaultWriteQueueSize = 30
const flushTimeOut = 10 * time.Second

type DatabaseWriteBuffer[ValueType any] interface {
	WriteToBuffer(value []ValueType)
	Flush(ctx context.Context) error
}

// DatabaseWriteBufferImpl queues documents and bulk indexes them once the queue grows past
// its size. After each successful flush the trace IDs of the flushed documents are published.
type DatabaseWriteBufferImpl[ValueType any] struct {
	writeQueue  []ValueType
	queueSize   int
	ac          client.AugurClient
	esIndexName string
	traceIDOf   func(ValueType) string
	bus         event_bus.AugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent]
	logger      *zap.Logger
	mu          sync.Mutex
	flushMu     sync.Mutex
}

func NewDatabaseWriteBufferImpl[ValueType any](
	ac client.AugurClient,
	esIndexName string,
	queueSize int,
	traceIDOf func(ValueType) string,
	bus event_bus.AugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent],
	logger *zap.Logger,
) *DatabaseWriteBufferImpl[ValueType] {
	if queueSize <= 0 {
		queueSize = DefaultWriteQueueSize
	}
	return &DatabaseWriteBufferImpl[ValueType]{
		writeQueue:  []ValueType{},
		queueSize:   queueSize,
		ac:          ac,
		esIndexName: esIndexName,
		traceIDOf:   traceIDOf,
		bus:         bus,
		logger:      logger,
	}
}

func (wbc *DatabaseWriteBufferImpl[ValueType]) WriteToBuffer(
	value []ValueType,
) {
	wbc.mu.Lock()
	wbc.writeQueue = append(wbc.writeQueue, value...)
	shouldFlush := len(wbc.writeQueue) > wbc.queueSize
	wbc.mu.Unlock()
	if shouldFlush {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeOut)
			defer cancel()
			err := wbc.Flush(ctx)
			if err != nil {
				wbc.logger.Error("Failed to flush to Elasticsearch", zap.Error(err))
			}
		}()
	}
}

// Flush writes everything queued so far. Documents of a failed flush are dropped.
func (wbc *DatabaseWriteBufferImpl[ValueType]) Flush(ctx context.Context) error {
	wbc.flushMu.Lock()
	defer wbc.flushMu.Unlock()

	wbc.mu.Lock()
	pending := wbc.writeQueue
	wbc.writeQueue = []ValueType{}
	wbc.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	metaMap, dataMap, err := client.ToMetaAndDataMap(pending)
	if err != nil {
		return fmt.Errorf("error converting write queue to meta and data map: %w", err)
	}
	err = wbc.ac.BulkIndex(
		ctx,
		metaMap,
		dataMap,
		&wbc.esIndexName,
	)
	if err != nil {
		return fmt.Errorf("error bulk indexing to Elasticsearch: %w", err)
	}
	wbc.logger.Debug(
		"Flushed write buffer",
		zap.String("index", wbc.esIndexName),
		zap.Int("documents", len(pending)),
	)

	if wbc.bus == nil || wbc.traceIDOf == nil {
		return nil
	}
	event := event_bus.TraceFlushedEvent{TraceIDs: uniqueTraceIDs(pending, wbc.traceIDOf)}
	if err := wbc.bus.Publish(event_bus.TraceFlushedTopic, event); err != nil {
		return fmt.Errorf("error publishing flushed traces: %w", err)
	}
	return nil
}

func uniqueTraceIDs[ValueType any](values []ValueType, traceIDOf func(ValueType) string) []string {
	seen := make(map[string]struct{})
	var traceIDs []string
	for _, value := range values {
		traceID := traceIDOf(value)
		if _, ok := seen[traceID]; ok {
			continue
		}
		seen[traceID] = struct{}{}
		traceIDs = append(traceIDs, traceID)
	}
	return traceIDs
}
