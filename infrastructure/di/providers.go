// Package di wires the observability pipeline together with manual providers.
package di

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MSA-Technologies/MSAPulse/infrastructure/config"
	"github.com/MSA-Technologies/MSAPulse/infrastructure/persistence/memory"
	"github.com/MSA-Technologies/MSAPulse/pkg/database"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
	"github.com/MSA-Technologies/MSAPulse/pkg/metrics"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	MetricStore  *metrics.Store
	Interceptor  *database.Interceptor
	ErrorHandler *apperrors.Handler
	ProductRepo  *memory.ProductRepository
}

// ProvideLogger creates a new logger instance honoring the configured minimum level.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Observability.MinimumLogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideMetricStore creates the bounded metric store.
func ProvideMetricStore(cfg *config.Config) *metrics.Store {
	return metrics.NewStore(cfg.Observability.MaxStoredMetrics)
}

// ProvideInterceptor creates the command interceptor.
func ProvideInterceptor(cfg *config.Config, logger *zap.Logger, store *metrics.Store) (*database.Interceptor, error) {
	return database.NewInterceptor(logger, database.Options{
		SlowQueryThreshold: cfg.SlowQueryThreshold(),
		EnableTracking:     cfg.Observability.EnablePerformanceTracking,
	}, store)
}

// ProvideErrorHandler creates the boundary error handler.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) (*apperrors.Handler, error) {
	return apperrors.NewHandler(
		logger,
		cfg.Observability.CorrelationIDHeader,
		cfg.Observability.IncludeExceptionDetails,
		cfg.IsDevelopment(),
	)
}

// InitializeContainer builds the full dependency container.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	store := ProvideMetricStore(cfg)

	interceptor, err := ProvideInterceptor(cfg, logger, store)
	if err != nil {
		return nil, err
	}

	errorHandler, err := ProvideErrorHandler(cfg, logger)
	if err != nil {
		return nil, err
	}

	productRepo, err := memory.NewProductRepository(interceptor)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		MetricStore:  store,
		Interceptor:  interceptor,
		ErrorHandler: errorHandler,
		ProductRepo:  productRepo,
	}, nil
}
