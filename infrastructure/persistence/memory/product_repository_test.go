package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSA-Technologies/MSAPulse/pkg/database"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

// recordingObserver captures observations for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	completed []database.Command
	failed    []database.Command
}

func (o *recordingObserver) OnCompleted(_ context.Context, cmd database.Command, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, cmd)
}

func (o *recordingObserver) OnFailed(_ context.Context, cmd database.Command, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, cmd)
}

func TestNewProductRepository(t *testing.T) {
	t.Run("Should fail fast without an observer", func(t *testing.T) {
		_, err := NewProductRepository(nil)
		assert.Error(t, err)
	})
}

func TestProductRepositoryList(t *testing.T) {
	observer := &recordingObserver{}
	repo, err := NewProductRepository(observer)
	require.NoError(t, err)

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	require.Len(t, observer.completed, 1)
	assert.Equal(t, database.VerbSelect, database.ClassifyCommand(observer.completed[0].Text))
}

func TestProductRepositoryGet(t *testing.T) {
	observer := &recordingObserver{}
	repo, err := NewProductRepository(observer)
	require.NoError(t, err)

	t.Run("Missing product is a not-found error, not a command failure", func(t *testing.T) {
		_, err := repo.Get(context.Background(), "missing-id")
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
		assert.Len(t, observer.failed, 0)
		assert.Len(t, observer.completed, 1)
	})

	t.Run("Existing product is returned", func(t *testing.T) {
		products, err := repo.List(context.Background())
		require.NoError(t, err)

		got, err := repo.Get(context.Background(), products[0].ID)
		require.NoError(t, err)
		assert.Equal(t, products[0], got)
	})
}

func TestProductRepositoryCreate(t *testing.T) {
	observer := &recordingObserver{}
	repo, err := NewProductRepository(observer)
	require.NoError(t, err)

	t.Run("Creates a product with a generated id", func(t *testing.T) {
		created, err := repo.Create(context.Background(), Product{Name: "Beacon", Price: 10})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beacon", got.Name)
	})

	t.Run("Duplicate id fails and is reported before propagating", func(t *testing.T) {
		created, err := repo.Create(context.Background(), Product{Name: "First", Price: 1})
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), Product{ID: created.ID, Name: "Second", Price: 2})
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

		require.Len(t, observer.failed, 1)
		assert.Equal(t, database.VerbInsert, database.ClassifyCommand(observer.failed[0].Text))
	})
}
