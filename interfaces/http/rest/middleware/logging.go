package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/pkg/correlation"
)

// maxLoggedBodyBytes bounds request bodies captured for logging.
const maxLoggedBodyBytes = 4096

// Logger creates a logging middleware that enriches every request log record
// with the active correlation identifier. Body logging is opt-in.
func Logger(logger *zap.Logger, logBodies bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var requestBody []byte
			if logBodies && r.Body != nil {
				requestBody, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), r.Body))
			}

			// Wrap response writer to capture status code
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("correlationId", correlation.ID(r.Context())),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("userAgent", r.UserAgent()),
			}
			if logBodies && len(requestBody) > 0 {
				fields = append(fields, zap.ByteString("requestBody", requestBody))
			}

			logger.Info("HTTP Request", fields...)
		})
	}
}
