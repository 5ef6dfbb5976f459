package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MSA-Technologies/MSAPulse/pkg/correlation"
)

func TestLoggerMiddleware(t *testing.T) {
	t.Run("Should log one record with the correlation id", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		handler := Logger(zap.New(core), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		req = req.WithContext(correlation.WithID(req.Context(), "log-cid"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "log-cid", fields["correlationId"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
		assert.Equal(t, "/api/v1/products", fields["path"])
	})

	t.Run("Should capture the request body when enabled", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		var bodySeen string
		handler := Logger(zap.New(core), true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			bodySeen = string(body)
		}))

		req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"name":"probe"}`))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		// Handler still sees the full body after it was captured for logging.
		assert.Equal(t, `{"name":"probe"}`, bodySeen)

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, `{"name":"probe"}`, fields["requestBody"])
	})
}
