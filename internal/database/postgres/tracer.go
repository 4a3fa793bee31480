package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type traceKey struct{}

type traceStart struct {
	sql string
	at  time.Time
}

// queryTracer logs failed statements at debug level and statements slower
// than slow as warnings. A zero slow disables the slow query warning.
type queryTracer struct {
	log  *zap.Logger
	slow time.Duration
	now  func() time.Time
}

func (t *queryTracer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, at: t.clock()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.clock().Sub(start.at)

	if data.Err != nil {
		t.log.Debug("query failed",
			zap.String("sql", compactSQL(start.sql)),
			zap.Duration("elapsed", elapsed),
			zap.Error(data.Err),
		)
		return
	}
	if t.slow > 0 && elapsed >= t.slow {
		t.log.Warn("slow query",
			zap.String("sql", compactSQL(start.sql)),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", data.CommandTag.RowsAffected()),
		)
	}
}

// compactSQL folds whitespace so multi-line statements log on one line.
func compactSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
