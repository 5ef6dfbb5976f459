package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/infrastructure/config"
	"github.com/MSA-Technologies/MSAPulse/interfaces/http/rest/handlers"
	"github.com/MSA-Technologies/MSAPulse/interfaces/http/rest/middleware"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg          *config.Config
	logger       *zap.Logger
	errorHandler *apperrors.Handler
	products     *handlers.ProductHandler
	metrics      *handlers.MetricsHandler
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	errorHandler *apperrors.Handler,
	products *handlers.ProductHandler,
	metrics *handlers.MetricsHandler,
) *Router {
	return &Router{
		cfg:          cfg,
		logger:       logger,
		errorHandler: errorHandler,
		products:     products,
		metrics:      metrics,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	correlationHeader := rt.cfg.Observability.CorrelationIDHeader

	// Global middleware; correlation runs first so every downstream component
	// sees the resolved identifier.
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Correlation(correlationHeader))
	router.Use(middleware.Logger(rt.logger, rt.cfg.Observability.LogRequestResponseBodies))
	router.Use(rt.errorHandler.Middleware)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", correlationHeader},
		ExposedHeaders: []string{correlationHeader},
		MaxAge:         300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.errorHandler.WrapFunc(rt.products.List))
			r.Post("/", rt.errorHandler.WrapFunc(rt.products.Create))
			r.Get("/{productID}", rt.errorHandler.WrapFunc(rt.products.Get))
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/performance", rt.metrics.Query)
			r.Delete("/performance", rt.metrics.Clear)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
