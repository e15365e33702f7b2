package service

import (
	"github.com/Avi18971911/tracegraph/internal/graph/model"
	"go.uber.org/zap"
)

type GraphBuilder interface {
	// Convert turns the rows of a single trace into one node per row and one edge per
	// row whose parent row is present.
	Convert(rows RowAccessor) *model.Graph
}

type GraphBuilderService struct {
	logger *zap.Logger
}

func NewGraphBuilderService(logger *zap.Logger) *GraphBuilderService {
	return &GraphBuilderService{logger: logger}
}

func (gbs *GraphBuilderService) Convert(rows RowAccessor) *model.Graph {
	traceDuration := TraceDuration(rows)
	index := BuildSpanIndex(rows)

	graph := &model.Graph{
		Nodes: []model.GraphNode{},
		Edges: []model.GraphEdge{},
	}
	forEachRow(rows, func(span *model.Span) {
		childrenDuration := MergeIntervals(childIntervals(index, span.SpanID))
		selfDuration := span.Duration - childrenDuration
		stats := FormatStats(span.Duration, traceDuration, selfDuration)

		graph.Nodes = append(graph.Nodes, model.GraphNode{
			Id:            span.SpanID,
			Title:         span.ServiceName,
			SubTitle:      span.OperationName,
			MainStat:      stats.Main,
			SecondaryStat: stats.Secondary,
			Color:         selfDuration / traceDuration,
		})

		if span.ParentSpanID == "" {
			return
		}
		if parent, ok := index[span.ParentSpanID]; ok && parent.Span != nil {
			graph.Edges = append(graph.Edges, model.GraphEdge{
				Id:     span.ParentSpanID + "--" + span.SpanID,
				Target: span.SpanID,
				Source: span.ParentSpanID,
			})
		}
	})

	gbs.logger.Debug(
		"Converted trace to node graph",
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
	)
	return graph
}

func childIntervals(index map[string]*model.SpanIndexEntry, spanID string) []model.Interval {
	entry, ok := index[spanID]
	if !ok {
		return nil
	}
	intervals := make([]model.Interval, 0, len(entry.Children))
	for _, childID := range entry.Children {
		child, ok := index[childID]
		if !ok || child.Span == nil {
			continue
		}
		intervals = append(intervals, model.Interval{
			Start: child.Span.StartTime,
			End:   child.Span.StartTime + child.Span.Duration,
		})
	}
	return intervals
}
