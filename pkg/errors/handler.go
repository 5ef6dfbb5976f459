package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/pkg/correlation"
)

// causeKey is the fixed errors-map key under which a disclosed inner cause is reported.
const causeKey = "cause"

// ProblemDetails is the structured error document written at the request
// boundary, following the RFC 7807 shape.
type ProblemDetails struct {
	Type       string              `json:"type"`
	Title      string              `json:"title"`
	Status     int                 `json:"status"`
	Detail     string              `json:"detail,omitempty"`
	TraceID    string              `json:"traceId"`
	Timestamp  time.Time           `json:"timestamp"`
	StackTrace string              `json:"stackTrace,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// Handler sits at the outer boundary of the request pipeline and converts
// every escaping failure into exactly one problem-details response.
type Handler struct {
	logger            *zap.Logger
	correlationHeader string
	includeDetails    bool
	development       bool
}

// NewHandler creates a boundary error handler. Detail disclosure is enabled
// when includeDetails is set or the service runs in a development environment.
func NewHandler(logger *zap.Logger, correlationHeader string, includeDetails, development bool) (*Handler, error) {
	if logger == nil {
		return nil, NewValidationError("logger is required")
	}
	if correlationHeader == "" {
		correlationHeader = "X-Correlation-ID"
	}
	return &Handler{
		logger:            logger,
		correlationHeader: correlationHeader,
		includeDetails:    includeDetails,
		development:       development,
	}, nil
}

// Handle classifies the error, logs it, and writes the problem-details
// response. It does nothing for a nil error.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status, title := Classify(err)

	// Prefer an identifier already attached to the outgoing response.
	traceID := w.Header().Get(h.correlationHeader)
	if traceID == "" {
		traceID = correlation.ID(r.Context())
	}

	// Logged unconditionally, regardless of disclosure settings.
	h.logger.Error("Unhandled request failure",
		zap.Error(err),
		zap.String("correlationId", traceID),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("status", status),
	)

	problem := ProblemDetails{
		Type:      fmt.Sprintf("https://httpstatuses.io/%d", status),
		Title:     title,
		Status:    status,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}

	if h.discloseDetails() {
		problem.Detail = errorMessage(err)
		if appErr := GetAppError(err); appErr != nil {
			problem.StackTrace = appErr.StackTrace
			if appErr.Cause != nil {
				problem.Errors = map[string][]string{
					causeKey: {appErr.Cause.Error()},
				}
			}
		}
	} else {
		problem.Detail = fmt.Sprintf("An unexpected error occurred. Use trace id %s when reporting the issue.", traceID)
	}

	if w.Header().Get(h.correlationHeader) == "" {
		w.Header().Set(h.correlationHeader, traceID)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	body, marshalErr := json.MarshalIndent(problem, "", "  ")
	if marshalErr != nil {
		// Cannot produce the response document; surface to the hosting runtime.
		panic(fmt.Sprintf("failed to serialize problem details: %v", marshalErr))
	}
	if _, writeErr := w.Write(body); writeErr != nil {
		h.logger.Error("Failed to write problem details response",
			zap.Error(writeErr),
			zap.String("correlationId", traceID),
		)
	}
}

// Middleware catches panics escaping inner processing and converts them into
// problem-details responses.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = NewInternalError(fmt.Sprintf("panic: %v", rec))
				}
				h.Handle(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// WrapFunc adapts an error-returning handler so escaping errors flow through
// the boundary exactly once.
func (h *Handler) WrapFunc(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}

func (h *Handler) discloseDetails() bool {
	return h.includeDetails || h.development
}

func errorMessage(err error) string {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
