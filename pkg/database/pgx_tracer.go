package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// queryStartKey carries the in-flight query state between the pgx start and end hooks.
type queryStartKey struct{}

type queryStart struct {
	startedAt time.Time
	sql       string
	args      []any
}

// PgxTracer adapts the pgx query lifecycle to the command observer. Register
// it on the connection config:
//
//	cfg.Tracer = database.NewPgxTracer(interceptor)
type PgxTracer struct {
	observer Observer
}

var _ pgx.QueryTracer = (*PgxTracer)(nil)

// NewPgxTracer creates a pgx query tracer reporting to the given observer.
func NewPgxTracer(observer Observer) *PgxTracer {
	return &PgxTracer{observer: observer}
}

// TraceQueryStart stashes the query and its start time in the context.
func (t *PgxTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		startedAt: time.Now(),
		sql:       data.SQL,
		args:      data.Args,
	})
}

// TraceQueryEnd reports the measured execution to the observer. The error, if
// any, still propagates to the application through pgx itself.
func (t *PgxTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	cmd := Command{
		Text:       start.sql,
		Parameters: positionalParameters(start.args),
		Type:       "Text",
	}
	if conn != nil && conn.Config() != nil {
		cmd.Database = conn.Config().Database
	}

	duration := time.Since(start.startedAt)
	if data.Err != nil {
		t.observer.OnFailed(ctx, cmd, duration, data.Err)
		return
	}
	t.observer.OnCompleted(ctx, cmd, duration)
}

func positionalParameters(args []any) []Parameter {
	if len(args) == 0 {
		return nil
	}
	params := make([]Parameter, 0, len(args))
	for i, arg := range args {
		params = append(params, Parameter{
			Name:  fmt.Sprintf("$%d", i+1),
			Value: arg,
		})
	}
	return params
}
