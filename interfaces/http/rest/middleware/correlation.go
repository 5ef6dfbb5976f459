package middleware

import (
	"net/http"
	"strings"

	"github.com/MSA-Technologies/MSAPulse/pkg/correlation"
)

// DefaultCorrelationHeader is used when no header name is configured.
const DefaultCorrelationHeader = "X-Correlation-ID"

// Correlation resolves the correlation identifier at request entry, installs
// it in the request context, and echoes it back on the response.
//
// Resolution precedence: the configured header, then the W3C traceparent
// trace-id field, then Request-Id, then a freshly generated identifier.
func Correlation(headerName string) func(http.Handler) http.Handler {
	if strings.TrimSpace(headerName) == "" {
		headerName = DefaultCorrelationHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := correlation.WithID(r.Context(), resolveIdentifier(r, headerName))
			id, _ := correlation.FromContext(ctx)

			// Never overwrite an identifier something upstream already attached.
			if w.Header().Get(headerName) == "" {
				w.Header().Set(headerName, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentifier(r *http.Request, headerName string) string {
	if id := strings.TrimSpace(r.Header.Get(headerName)); id != "" {
		return id
	}
	if id, ok := correlation.FromTraceparent(r.Header.Get("traceparent")); ok {
		return id
	}
	if id := strings.TrimSpace(r.Header.Get("Request-Id")); id != "" {
		return id
	}
	// Blank triggers generation in correlation.WithID.
	return ""
}
