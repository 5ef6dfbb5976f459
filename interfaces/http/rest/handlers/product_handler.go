package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/infrastructure/persistence/memory"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

// ProductHandler handles the demo product endpoints. Its handler funcs return
// errors so escaping failures flow through the boundary error handler.
type ProductHandler struct {
	repo   *memory.ProductRepository
	logger *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo *memory.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   repo,
		logger: logger,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// List returns all products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) error {
	products, err := h.repo.List(r.Context())
	if err != nil {
		return err
	}
	respondJSON(w, h.logger, http.StatusOK, products)
	return nil
}

// Get returns one product by id.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) error {
	product, err := h.repo.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		return err
	}
	respondJSON(w, h.logger, http.StatusOK, product)
	return nil
}

// Create inserts a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.NewValidationError("invalid request body").WithCause(err)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("product name is required")
	}

	product, err := h.repo.Create(r.Context(), memory.Product{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		return err
	}

	respondJSON(w, h.logger, http.StatusCreated, product)
	return nil
}
