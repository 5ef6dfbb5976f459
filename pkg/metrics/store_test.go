package metrics

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricAt(category, operation string, ts time.Time) *Metric {
	m := NewMetric(category, operation, 5, "cid")
	m.Timestamp = ts
	return m
}

func TestStoreRecord(t *testing.T) {
	t.Run("Should reject nil metric", func(t *testing.T) {
		store := NewStore(10)
		err := store.Record(nil)
		assert.Error(t, err)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Should append metrics below capacity", func(t *testing.T) {
		store := NewStore(10)
		for i := 0; i < 5; i++ {
			require.NoError(t, store.Record(NewMetric("DatabaseQuery", "SELECT", int64(i), "cid")))
		}
		assert.Equal(t, 5, store.Len())
	})

	t.Run("Should evict the oldest third at capacity", func(t *testing.T) {
		store := NewStore(9)
		base := time.Now()
		for i := 0; i < 9; i++ {
			require.NoError(t, store.Record(metricAt("DatabaseQuery", fmt.Sprintf("op-%d", i), base.Add(time.Duration(i)*time.Second))))
		}
		require.Equal(t, 9, store.Len())

		// The next write triggers eviction of the three oldest entries first.
		require.NoError(t, store.Record(metricAt("DatabaseQuery", "op-9", base.Add(9*time.Second))))
		assert.Equal(t, 7, store.Len())

		remaining := store.Query("")
		ops := make(map[string]bool)
		for _, m := range remaining {
			ops[m.Operation] = true
		}
		for _, evicted := range []string{"op-0", "op-1", "op-2"} {
			assert.False(t, ops[evicted], "expected %s to be evicted", evicted)
		}
		assert.True(t, ops["op-9"])
	})

	t.Run("Should never exceed capacity", func(t *testing.T) {
		store := NewStore(30)
		for i := 0; i < 200; i++ {
			require.NoError(t, store.Record(NewMetric("DatabaseQuery", "INSERT", 1, "cid")))
			assert.LessOrEqual(t, store.Len(), 30)
		}
	})
}

func TestStoreQuery(t *testing.T) {
	base := time.Now()

	newStore := func() *Store {
		store := NewStore(100)
		store.Record(metricAt("SELECT", "list", base.Add(1*time.Second)))
		store.Record(metricAt("INSERT", "create", base.Add(2*time.Second)))
		store.Record(metricAt("SELECT", "get", base.Add(3*time.Second)))
		return store
	}

	t.Run("Blank category returns every stored metric", func(t *testing.T) {
		store := newStore()
		assert.Len(t, store.Query(""), 3)
		assert.Len(t, store.Query("   "), 3)
	})

	t.Run("Category match is case-insensitive", func(t *testing.T) {
		store := newStore()
		results := store.Query("select")
		assert.Len(t, results, 2)
		for _, m := range results {
			assert.Equal(t, "SELECT", m.Category)
		}
	})

	t.Run("Results are ordered newest first", func(t *testing.T) {
		store := newStore()
		results := store.Query("")
		for i := 1; i < len(results); i++ {
			assert.False(t, results[i-1].Timestamp.Before(results[i].Timestamp))
		}
		assert.Equal(t, "get", results[0].Operation)
	})

	t.Run("Unmatched category returns empty", func(t *testing.T) {
		store := newStore()
		assert.Empty(t, store.Query("DELETE"))
	})
}

func TestStoreClear(t *testing.T) {
	store := NewStore(10)
	store.Record(NewMetric("DatabaseQuery", "SELECT", 1, "cid"))
	store.Record(NewMetric("DatabaseQuery", "UPDATE", 2, "cid"))

	store.Clear()
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Query(""))
}

func TestStoreConcurrency(t *testing.T) {
	t.Run("Concurrent writers and readers stay within bounds", func(t *testing.T) {
		store := NewStore(50)

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					store.Record(NewMetric("DatabaseQuery", "SELECT", int64(i), "cid"))
				}
			}()
		}
		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					store.Query("databasequery")
					store.Len()
				}
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, store.Len(), 50)
		assert.Greater(t, store.Len(), 0)
	})
}
