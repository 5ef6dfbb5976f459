package metrics

import (
	"time"

	"github.com/google/uuid"
)

// Metric records one observed operation.
// Immutable after creation; destroyed only by store eviction or an explicit clear.
type Metric struct {
	ID            string            `json:"id"`
	Category      string            `json:"category"`
	Operation     string            `json:"operation"`
	DurationMs    int64             `json:"durationMs"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlationId"`
	Success       bool              `json:"success"`
	ErrorMessage  string            `json:"errorMessage,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewMetric creates a metric stamped with a fresh id and the current time.
func NewMetric(category, operation string, durationMs int64, correlationID string) *Metric {
	return &Metric{
		ID:            uuid.New().String(),
		Category:      category,
		Operation:     operation,
		DurationMs:    durationMs,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
		Success:       true,
		Metadata:      make(map[string]string),
	}
}

// WithError marks the metric as failed with the given message.
func (m *Metric) WithError(message string) *Metric {
	m.Success = false
	m.ErrorMessage = message
	return m
}

// WithMetadata attaches a metadata entry.
func (m *Metric) WithMetadata(key, value string) *Metric {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
	return m
}
