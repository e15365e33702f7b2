package router

import (
	"net/http"

	"github.com/Avi18971911/tracegraph/internal/query_server/handler"
	"github.com/Avi18971911/tracegraph/internal/query_server/service/trace_graph"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func CreateRouter(
	traceGraphQueryService trace_graph.TraceGraphQueryService,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/graph/{"+handler.TraceIdVar+"}", handler.TraceGraphHandler(
			traceGraphQueryService,
			logger,
		),
	).Methods("GET")

	r.Handle(
		"/graph", handler.ConvertHandler(
			traceGraphQueryService,
			logger,
		),
	).Methods("POST")

	r.Handle("/health", handler.HealthHandler(logger)).Methods("GET")
	r.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			DisableCompression: true,
		}),
	)).Methods("GET")

	return r
}
