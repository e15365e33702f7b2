package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceStore   = "store"
	SourceRequest = "request"
)

var (
	GraphConversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_graph_conversions_total",
		Help: "The total number of traces converted to node graphs",
	}, []string{"source"})
	GraphConversionTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trace_graph_conversion_time_ms",
		Help:    "Trace to node graph conversion time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	}, []string{"source"})
	ConvertedSpans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_graph_converted_spans_total",
		Help: "The total number of spans turned into graph nodes",
	}, []string{"source"})
	IngestedSpans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trace_graph_ingested_spans_total",
		Help: "The total number of spans accepted over OTLP",
	})
	RejectedSpans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trace_graph_rejected_spans_total",
		Help: "The total number of OTLP spans dropped for missing IDs",
	})
	GraphCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_graph_cache_requests_total",
		Help: "Node graph cache lookups by result",
	}, []string{"result"})
)
