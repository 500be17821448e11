package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
)

const maxRequestBytes = 64 << 10

// Predictor scores one loan application.
type Predictor interface {
	Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error)
}

// ModelDescriber describes the serving model.
type ModelDescriber interface {
	Execute(ctx context.Context) (dto.ModelInfoResponse, error)
}

// InsightsGenerator summarises a cleaned dataset.
type InsightsGenerator interface {
	Execute(ctx context.Context, req dto.InsightsRequest) (dto.InsightsResponse, error)
}

// PredictionHandler serves the prediction API over HTTP.
type PredictionHandler struct {
	predictor   Predictor
	modelInfo   ModelDescriber
	insights    InsightsGenerator
	logger      *slog.Logger
	datasetPath string
}

// NewPredictionHandler creates the handler. insights may be nil when no
// cleaned dataset is available to the server.
func NewPredictionHandler(
	predictor Predictor,
	modelInfo ModelDescriber,
	insights InsightsGenerator,
	datasetPath string,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predictor:   predictor,
		modelInfo:   modelInfo,
		insights:    insights,
		datasetPath: datasetPath,
		logger:      logger,
	}
}

// RegisterRoutes attaches the v1 API to mux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/predictions", h.predict)
	mux.HandleFunc("GET /v1/model", h.model)
	mux.HandleFunc("GET /v1/insights", h.insightsReport)
}

func (h *PredictionHandler) predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	resp, err := h.predictor.Execute(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) model(w http.ResponseWriter, r *http.Request) {
	resp, err := h.modelInfo.Execute(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) insightsReport(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "insights are not configured"})
		return
	}
	resp, err := h.insights.Execute(r.Context(), dto.InsightsRequest{DatasetPath: h.datasetPath})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
