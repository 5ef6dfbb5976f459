package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/pkg/metrics"
)

// MetricsHandler exposes the stored performance metrics.
type MetricsHandler struct {
	store  *metrics.Store
	logger *zap.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(store *metrics.Store, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		store:  store,
		logger: logger,
	}
}

// MetricsResponse wraps a metrics query result.
type MetricsResponse struct {
	Count   int               `json:"count"`
	Metrics []*metrics.Metric `json:"metrics"`
}

// Query returns stored metrics, newest first, optionally filtered by the
// category query parameter.
func (h *MetricsHandler) Query(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	results := h.store.Query(category)

	respondJSON(w, h.logger, http.StatusOK, MetricsResponse{
		Count:   len(results),
		Metrics: results,
	})
}

// Clear removes all stored metrics.
func (h *MetricsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}
