// Package metrics provides a bounded in-memory store for performance metrics.
// It is a pure aggregate structure: no logging, no I/O.
package metrics

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 1000

// Store is a capacity-bounded collection of metrics shared across concurrent
// requests. Eviction runs inside the writer's critical section, so the
// capacity bound is exact: the store never holds more than its capacity.
type Store struct {
	mu       sync.RWMutex
	capacity int
	items    []*Metric
}

// NewStore creates a store bounded to the given capacity.
// A non-positive capacity falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		items:    make([]*Metric, 0, capacity),
	}
}

// Record appends a metric, evicting the oldest third of stored entries first
// when the store is at capacity. Growth is bounded rather than writes rejected.
func (s *Store) Record(m *Metric) error {
	if m == nil {
		return apperrors.NewValidationError("metric is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.capacity {
		s.evictOldest()
	}
	s.items = append(s.items, m)
	return nil
}

// evictOldest drops the chronologically oldest third of stored metrics.
// Caller must hold the write lock.
func (s *Store) evictOldest() {
	sort.Slice(s.items, func(i, j int) bool {
		return s.items[i].Timestamp.Before(s.items[j].Timestamp)
	})
	drop := len(s.items) / 3
	if drop == 0 {
		drop = 1
	}
	s.items = append(s.items[:0], s.items[drop:]...)
}

// Query returns stored metrics, newest first. A blank category returns every
// stored metric; otherwise the category is matched case-insensitively.
func (s *Store) Query(category string) []*Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category = strings.TrimSpace(category)
	results := make([]*Metric, 0, len(s.items))
	for _, m := range s.items {
		if category == "" || strings.EqualFold(m.Category, category) {
			results = append(results, m)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results
}

// Len reports the number of currently stored metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all stored metrics.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
}
