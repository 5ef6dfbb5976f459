// Package memory provides an in-memory product repository used by the demo
// endpoints. Every access is reported to the command observer the same way a
// real database driver would report it, so the full interceptor path is
// exercised without a live backend.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MSA-Technologies/MSAPulse/pkg/database"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

const databaseName = "msapulse"

// Product is the demo resource.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductRepository stores products in memory and reports each simulated
// command execution to the observer.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]Product
	observer database.Observer
}

// NewProductRepository creates a seeded repository.
func NewProductRepository(observer database.Observer) (*ProductRepository, error) {
	if observer == nil {
		return nil, apperrors.NewValidationError("command observer is required")
	}

	repo := &ProductRepository{
		products: make(map[string]Product),
		observer: observer,
	}
	for _, p := range []Product{
		{ID: uuid.New().String(), Name: "Telemetry Probe", Price: 129.00},
		{ID: uuid.New().String(), Name: "Pulse Gateway", Price: 349.50},
		{ID: uuid.New().String(), Name: "Trace Relay", Price: 89.99},
	} {
		repo.products[p.ID] = p
	}
	return repo, nil
}

// List returns all products.
func (r *ProductRepository) List(ctx context.Context) ([]Product, error) {
	start := time.Now()
	cmd := database.Command{
		Text:     "SELECT id, name, price FROM products",
		Type:     "Text",
		Database: databaseName,
	}

	r.mu.RLock()
	results := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		results = append(results, p)
	}
	r.mu.RUnlock()

	r.observer.OnCompleted(ctx, cmd, time.Since(start))
	return results, nil
}

// Get returns one product by id. A missing product is not a command failure:
// the lookup completed, it just matched nothing.
func (r *ProductRepository) Get(ctx context.Context, id string) (Product, error) {
	start := time.Now()
	cmd := database.Command{
		Text:       "SELECT id, name, price FROM products WHERE id = @id",
		Parameters: []database.Parameter{{Name: "@id", Value: id}},
		Type:       "Text",
		Database:   databaseName,
	}

	r.mu.RLock()
	product, ok := r.products[id]
	r.mu.RUnlock()

	r.observer.OnCompleted(ctx, cmd, time.Since(start))
	if !ok {
		return Product{}, apperrors.NewNotFoundError("product")
	}
	return product, nil
}

// Create inserts a product. Inserting an existing id fails like a duplicate
// key would, and the failure is reported before it propagates.
func (r *ProductRepository) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	start := time.Now()
	cmd := database.Command{
		Text: "INSERT INTO products (id, name, price) VALUES (@id, @name, @price)",
		Parameters: []database.Parameter{
			{Name: "@id", Value: p.ID},
			{Name: "@name", Value: p.Name},
			{Name: "@price", Value: p.Price},
		},
		Type:     "Text",
		Database: databaseName,
	}

	r.mu.Lock()
	_, exists := r.products[p.ID]
	if !exists {
		r.products[p.ID] = p
	}
	r.mu.Unlock()

	if exists {
		err := apperrors.NewConflictError("product already exists")
		r.observer.OnFailed(ctx, cmd, time.Since(start), err)
		return Product{}, err
	}

	r.observer.OnCompleted(ctx, cmd, time.Since(start))
	return p, nil
}
