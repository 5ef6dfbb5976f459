// Package correlation carries the identifier that ties together every log
// entry and metric produced while processing one logical request.
//
// The identifier lives in the request's context.Context, so child work spawned
// with that context sees a snapshot of the parent's identifier and mutations
// never flow between siblings or back to the parent.
package correlation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey represents a context key type
type ContextKey string

// ContextKeyCorrelationID is the context key under which the identifier is stored
const ContextKeyCorrelationID ContextKey = "correlation_id"

// NewID generates a fresh correlation identifier: 32 lowercase hexadecimal
// characters (a UUID with the separators removed).
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// WithID installs the given identifier in the context. A blank identifier
// triggers generation of a fresh one.
func WithID(ctx context.Context, id string) context.Context {
	if strings.TrimSpace(id) == "" {
		id = NewID()
	}
	return context.WithValue(ctx, ContextKeyCorrelationID, id)
}

// FromContext extracts the correlation identifier from the context.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeyCorrelationID).(string)
	return id, ok && id != ""
}

// ID returns the identifier active for the given context, generating a fresh
// one if none is set. Absence is not an error: fire-and-forget work that was
// not spawned through the request's own context falls back to a new identifier.
func ID(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return NewID()
}

// Ensure returns a context guaranteed to carry an identifier, along with the
// identifier itself. The context is returned unchanged when one is already set.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := NewID()
	return context.WithValue(ctx, ContextKeyCorrelationID, id), id
}

// FromTraceparent extracts the trace-id field from a W3C traceparent header
// value of the form <version>-<trace-id>-<parent-id>-<flags>.
func FromTraceparent(header string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) < 4 || parts[1] == "" {
		return "", false
	}
	return strings.ToLower(parts[1]), true
}
