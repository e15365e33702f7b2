package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Avi18971911/tracegraph/internal/query_server/service/trace_graph"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const TraceIdVar = "traceId"

// TraceGraphHandler creates a handler for getting the node graph of a stored trace.
// @Summary Get the node graph of a trace.
// @Tags graph
// @Produce json
// @Param traceId path string true "The trace ID"
// @Success 200 {object} NodeGraphResponseDTO "Nodes and edges frames of the trace"
// @Failure 404 {object} ErrorMessage "Trace not found"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /graph/{traceId} [get]
func TraceGraphHandler(
	s trace_graph.TraceGraphQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceId := mux.Vars(r)[TraceIdVar]
		logger.Info(
			"Received Trace Graph request",
			zap.String("URL Path", r.URL.Path),
			zap.String("trace_id", traceId),
		)
		if traceId == "" {
			HttpError(w, ErrNoTraceId.Error(), http.StatusBadRequest, logger)
			return
		}

		frames, err := s.GetTraceGraph(r.Context(), traceId)
		if err != nil {
			if errors.Is(err, trace_graph.ErrTraceNotFound) {
				HttpError(w, "Trace not found", http.StatusNotFound, logger)
				return
			}
			logger.Error("Error encountered when getting trace graph", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
		writeJson(w, mapNodeGraphFramesToDTO(frames), logger)
	}
}

// ConvertHandler creates a handler for converting a trace frame to a node graph.
// @Summary Convert a trace frame to a node graph.
// @Tags graph
// @Accept json
// @Produce json
// @Param frame body ConvertRequestDTO true "The trace frame"
// @Success 200 {object} NodeGraphResponseDTO "Nodes and edges frames of the trace"
// @Failure 400 {object} ErrorMessage "Invalid trace frame"
// @Router /graph [post]
func ConvertHandler(
	s trace_graph.TraceGraphQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		var req ConvertRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}
		if req.Frame == nil {
			HttpError(w, ErrNoFrame.Error(), http.StatusBadRequest, logger)
			return
		}

		frames, err := s.ConvertRows(r.Context(), req.Frame)
		if err != nil {
			if errors.Is(err, trace_graph.ErrInvalidFrame) {
				HttpError(w, err.Error(), http.StatusBadRequest, logger)
				return
			}
			logger.Error("Error encountered when converting trace frame", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
		writeJson(w, mapNodeGraphFramesToDTO(frames), logger)
	}
}

func HealthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, HealthResponseDTO{Status: "ok"}, logger)
	}
}

var (
	ErrNoTraceId = errors.New("no trace ID provided")
	ErrNoFrame   = errors.New("no trace frame provided")
)
