package database

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MSA-Technologies/MSAPulse/pkg/correlation"
	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
	"github.com/MSA-Technologies/MSAPulse/pkg/metrics"
)

// CategoryDatabaseQuery is the metric category under which command executions are recorded.
const CategoryDatabaseQuery = "DatabaseQuery"

// Observer receives the outcome of each backend command execution.
// Synchronous and asynchronous call sites invoke the same entry points, so
// both paths produce identical log output and metrics.
type Observer interface {
	OnCompleted(ctx context.Context, cmd Command, duration time.Duration)
	OnFailed(ctx context.Context, cmd Command, duration time.Duration, err error)
}

// Options configures interceptor behavior.
type Options struct {
	// SlowQueryThreshold flags commands that run strictly longer than this.
	// A zero threshold flags any positive duration.
	SlowQueryThreshold time.Duration

	// EnableTracking gates whether metrics are recorded at all.
	EnableTracking bool
}

// Interceptor measures, classifies, logs, and records backend command
// executions. It never swallows the underlying error: failure observations
// are reported and the error keeps propagating through the caller.
type Interceptor struct {
	logger  *zap.Logger
	options Options
	store   *metrics.Store
}

var _ Observer = (*Interceptor)(nil)

// NewInterceptor creates a command interceptor. Missing collaborators and a
// negative threshold fail fast.
func NewInterceptor(logger *zap.Logger, options Options, store *metrics.Store) (*Interceptor, error) {
	if logger == nil {
		return nil, apperrors.NewValidationError("logger is required")
	}
	if store == nil {
		return nil, apperrors.NewValidationError("metric store is required")
	}
	if options.SlowQueryThreshold < 0 {
		return nil, apperrors.NewValidationError("slow query threshold must be non-negative")
	}
	return &Interceptor{
		logger:  logger,
		options: options,
		store:   store,
	}, nil
}

// OnCompleted records a successful command execution.
func (i *Interceptor) OnCompleted(ctx context.Context, cmd Command, duration time.Duration) {
	i.observe(ctx, cmd, duration, nil)
}

// OnFailed records a failed command execution. The causing error is logged
// and recorded but left untouched for the caller to propagate.
func (i *Interceptor) OnFailed(ctx context.Context, cmd Command, duration time.Duration, err error) {
	i.observe(ctx, cmd, duration, err)
}

// observe performs exactly one recording pass per observed execution.
func (i *Interceptor) observe(ctx context.Context, cmd Command, duration time.Duration, cmdErr error) {
	correlationID := correlation.ID(ctx)
	verb := ClassifyCommand(cmd.Text)
	isSlow := duration > i.options.SlowQueryThreshold

	if i.options.EnableTracking {
		i.recordMetric(cmd, verb, duration, correlationID, cmdErr)
	}

	switch {
	case cmdErr != nil:
		i.logger.Error("Database command failed",
			zap.Error(cmdErr),
			zap.String("commandText", SanitizeText(cmd.Text)),
			zap.String("parameters", FormatParameters(cmd.Parameters)),
			zap.String("correlationId", correlationID),
			zap.Duration("duration", duration),
		)
	case isSlow:
		i.logger.Warn("Slow database command detected",
			zap.Duration("duration", duration),
			zap.Duration("threshold", i.options.SlowQueryThreshold),
			zap.String("commandText", SanitizeText(cmd.Text)),
			zap.String("parameters", FormatParameters(cmd.Parameters)),
			zap.String("correlationId", correlationID),
			zap.String("suggestion", "review the execution plan and consider adding an index"),
		)
	default:
		i.logger.Debug("Database command completed",
			zap.Duration("duration", duration),
			zap.String("commandType", verb),
			zap.String("correlationId", correlationID),
		)
	}
}

func (i *Interceptor) recordMetric(cmd Command, verb string, duration time.Duration, correlationID string, cmdErr error) {
	commandType := cmd.Type
	if commandType == "" {
		commandType = "Text"
	}
	databaseName := cmd.Database
	if databaseName == "" {
		databaseName = unknownDatabase
	}

	metric := metrics.NewMetric(CategoryDatabaseQuery, verb, duration.Milliseconds(), correlationID).
		WithMetadata("commandType", commandType).
		WithMetadata("database", databaseName)
	if cmdErr != nil {
		metric.WithError(cmdErr.Error())
	}

	if err := i.store.Record(metric); err != nil {
		i.logger.Warn("Failed to record performance metric", zap.Error(err))
	}
}
