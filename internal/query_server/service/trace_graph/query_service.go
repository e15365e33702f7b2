package trace_graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/client"
	"github.com/Avi18971911/tracegraph/internal/graph/frame"
	"github.com/Avi18971911/tracegraph/internal/graph/service"
	"github.com/Avi18971911/tracegraph/internal/metric"
	spanHelper "github.com/Avi18971911/tracegraph/internal/otel_server/trace/helper"
	"github.com/Avi18971911/tracegraph/internal/query_server/cache"
	"github.com/grafana/grafana-plugin-sdk-go/data"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second
const DefaultQuerySize = 10000

type TraceGraphQueryService interface {
	// GetTraceGraph loads the spans of a stored trace and converts them to node graph frames.
	GetTraceGraph(ctx context.Context, traceID string) (*frame.NodeGraphFrames, error)
	// ConvertRows converts a caller supplied trace frame without touching storage.
	ConvertRows(ctx context.Context, traceFrame *data.Frame) (*frame.NodeGraphFrames, error)
}

type TraceGraphService struct {
	ac           client.AugurClient
	graphCache   cache.GraphCache
	graphBuilder service.GraphBuilder
	timeout      time.Duration
	querySize    int
	logger       *zap.Logger
}

// NewTraceGraphService builds the service. graphCache may be nil to disable caching.
func NewTraceGraphService(
	ac client.AugurClient,
	graphCache cache.GraphCache,
	graphBuilder service.GraphBuilder,
	timeout time.Duration,
	querySize int,
	logger *zap.Logger,
) *TraceGraphService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if querySize <= 0 {
		querySize = DefaultQuerySize
	}
	return &TraceGraphService{
		ac:           ac,
		graphCache:   graphCache,
		graphBuilder: graphBuilder,
		timeout:      timeout,
		querySize:    querySize,
		logger:       logger,
	}
}

func (tgs *TraceGraphService) GetTraceGraph(
	ctx context.Context,
	traceID string,
) (*frame.NodeGraphFrames, error) {
	if traceID == "" {
		return nil, ErrNoTraceId
	}
	if cached := tgs.fromCache(traceID); cached != nil {
		return cached, nil
	}
	var generation uint64
	if tgs.graphCache != nil {
		generation = tgs.graphCache.Generation()
	}

	queryJson, err := json.Marshal(getSpansOfTraceQuery(traceID))
	if err != nil {
		return nil, fmt.Errorf("error marshalling spans query to JSON: %w", err)
	}
	localQuerySize := tgs.querySize
	queryCtx, cancel := context.WithTimeout(ctx, tgs.timeout)
	defer cancel()
	res, err := tgs.ac.Search(
		queryCtx,
		string(queryJson),
		[]string{bootstrapper.SpanIndexName},
		&localQuerySize,
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for spans of trace %s: %w", traceID, err)
	}
	if len(res) == 0 {
		return nil, ErrTraceNotFound
	}
	if len(res) == localQuerySize {
		tgs.logger.Warn(
			"Trace may have been truncated by the query size",
			zap.String("trace_id", traceID),
			zap.Int("query_size", localQuerySize),
		)
	}

	spans, err := spanHelper.ConvertFromDocuments(res)
	if err != nil {
		return nil, fmt.Errorf("error converting span documents of trace %s: %w", traceID, err)
	}
	rows := service.SliceRows(spanHelper.ConvertToRows(spans))
	frames := tgs.convert(rows, metric.SourceStore)

	if tgs.graphCache != nil {
		err := tgs.graphCache.Put(traceID, frames, generation)
		if errors.Is(err, cache.ErrStaleEntry) {
			tgs.logger.Debug("Trace received new spans while loading, not caching", zap.String("trace_id", traceID))
		} else if err != nil {
			tgs.logger.Warn("Failed to cache node graph", zap.String("trace_id", traceID), zap.Error(err))
		}
	}
	return frames, nil
}

func (tgs *TraceGraphService) ConvertRows(
	ctx context.Context,
	traceFrame *data.Frame,
) (*frame.NodeGraphFrames, error) {
	rows, err := frame.NewFrameRows(traceFrame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if err := rows.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tgs.convert(rows, metric.SourceRequest), nil
}

func (tgs *TraceGraphService) convert(rows service.RowAccessor, source string) *frame.NodeGraphFrames {
	start := time.Now()
	graph := tgs.graphBuilder.Convert(rows)
	frames := frame.ToNodeGraphFrames(graph)

	metric.GraphConversions.WithLabelValues(source).Inc()
	metric.ConvertedSpans.WithLabelValues(source).Add(float64(len(graph.Nodes)))
	metric.GraphConversionTime.WithLabelValues(source).Observe(
		float64(time.Since(start).Microseconds()) / 1000,
	)
	return frames
}

func (tgs *TraceGraphService) fromCache(traceID string) *frame.NodeGraphFrames {
	if tgs.graphCache == nil {
		return nil
	}
	cached, err := tgs.graphCache.Get(traceID)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			tgs.logger.Warn("Failed to read node graph cache", zap.String("trace_id", traceID), zap.Error(err))
		}
		metric.GraphCacheRequests.WithLabelValues("miss").Inc()
		return nil
	}
	metric.GraphCacheRequests.WithLabelValues("hit").Inc()
	return cached
}

var (
	ErrNoTraceId     = errors.New("no trace ID provided")
	ErrTraceNotFound = errors.New("no spans found for trace")
	ErrInvalidFrame  = errors.New("invalid trace frame")
)
