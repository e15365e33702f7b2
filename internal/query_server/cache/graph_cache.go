package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Avi18971911/tracegraph/internal/event_bus"
	"github.com/Avi18971911/tracegraph/internal/graph/frame"
	"github.com/dgraph-io/ristretto"
)

const maxTrackedInvalidations = 10000

// GraphCache holds converted node graphs by trace ID. Eviction is based on LRU and LFU policies.
type GraphCache interface {
	Get(traceID string) (*frame.NodeGraphFrames, error)
	// Generation is read before loading a graph and handed back to Put.
	Generation() uint64
	// Put stores frames unless the trace was invalidated after generation since.
	Put(traceID string, frames *frame.NodeGraphFrames, since uint64) error
	Invalidate(traceIDs []string)
}

type GraphCacheImpl struct {
	cache *ristretto.Cache
	ttl   time.Duration

	mu            sync.Mutex
	generation    uint64
	floor         uint64
	invalidatedAt map[string]uint64
}

// NewGraphCacheImpl wraps a ristretto cache. Entries never expire when ttl is zero.
func NewGraphCacheImpl(cache *ristretto.Cache, ttl time.Duration) *GraphCacheImpl {
	return &GraphCacheImpl{cache: cache, ttl: ttl, invalidatedAt: make(map[string]uint64)}
}

func (gc *GraphCacheImpl) Get(traceID string) (*frame.NodeGraphFrames, error) {
	value, found := gc.cache.Get(traceID)
	if !found {
		return nil, ErrKeyNotFound
	}
	typedValue, ok := value.(*frame.NodeGraphFrames)
	if !ok {
		return nil, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}
	return typedValue, nil
}

func (gc *GraphCacheImpl) Generation() uint64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.generation
}

func (gc *GraphCacheImpl) Put(traceID string, frames *frame.NodeGraphFrames, since uint64) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	// once the invalidation log has been reset, its older entries are unknown
	if since < gc.floor || gc.invalidatedAt[traceID] > since {
		return ErrStaleEntry
	}
	set := gc.cache.SetWithTTL(traceID, frames, cost(frames), gc.ttl)
	if !set {
		return ErrSetFailed
	}
	return nil
}

func (gc *GraphCacheImpl) Invalidate(traceIDs []string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.generation++
	if len(gc.invalidatedAt)+len(traceIDs) > maxTrackedInvalidations {
		gc.invalidatedAt = make(map[string]uint64)
		gc.floor = gc.generation
	}
	for _, traceID := range traceIDs {
		gc.cache.Del(traceID)
		gc.invalidatedAt[traceID] = gc.generation
	}
}

// Wait blocks until pending sets are applied.
func (gc *GraphCacheImpl) Wait() {
	gc.cache.Wait()
}

// InvalidateOnFlush drops cached graphs of traces that received new spans.
func InvalidateOnFlush(
	gc GraphCache,
	bus event_bus.AugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent],
) error {
	return bus.Subscribe(
		event_bus.TraceFlushedTopic,
		func(input event_bus.TraceFlushedEvent) error {
			gc.Invalidate(input.TraceIDs)
			return nil
		},
		false,
	)
}

func cost(frames *frame.NodeGraphFrames) int64 {
	rows := 0
	if frames.Nodes != nil {
		rows += frames.Nodes.Rows()
	}
	if frames.Edges != nil {
		rows += frames.Edges.Rows()
	}
	return int64(max(rows, 1))
}

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
	ErrStaleEntry  = errors.New("trace was invalidated while its graph was loading")
)
