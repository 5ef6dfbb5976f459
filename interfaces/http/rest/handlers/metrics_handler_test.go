package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/pkg/metrics"
)

func seededStore(t *testing.T) *metrics.Store {
	t.Helper()
	store := metrics.NewStore(100)
	require.NoError(t, store.Record(metrics.NewMetric("DatabaseQuery", "SELECT", 12, "cid-1")))
	require.NoError(t, store.Record(metrics.NewMetric("DatabaseQuery", "INSERT", 30, "cid-2")))
	require.NoError(t, store.Record(metrics.NewMetric("HttpRequest", "GET", 4, "cid-3")))
	return store
}

func TestMetricsHandlerQuery(t *testing.T) {
	t.Run("Should return all metrics without a category filter", func(t *testing.T) {
		handler := NewMetricsHandler(seededStore(t), zap.NewNop())
		w := httptest.NewRecorder()

		handler.Query(w, httptest.NewRequest("GET", "/api/v1/metrics/performance", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp MetricsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Count)
		assert.Len(t, resp.Metrics, 3)
	})

	t.Run("Should filter by category case-insensitively", func(t *testing.T) {
		handler := NewMetricsHandler(seededStore(t), zap.NewNop())
		w := httptest.NewRecorder()

		handler.Query(w, httptest.NewRequest("GET", "/api/v1/metrics/performance?category=databasequery", nil))

		var resp MetricsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
		for _, m := range resp.Metrics {
			assert.Equal(t, "DatabaseQuery", m.Category)
		}
	})
}

func TestMetricsHandlerClear(t *testing.T) {
	store := seededStore(t)
	handler := NewMetricsHandler(store, zap.NewNop())
	w := httptest.NewRecorder()

	handler.Clear(w, httptest.NewRequest("DELETE", "/api/v1/metrics/performance", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())
}
