package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stepClock struct {
	at   time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}

func newObservedTracer(slow, step time.Duration) (*queryTracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	clock := &stepClock{at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
	return &queryTracer{log: zap.New(core), slow: slow, now: clock.now}, logs
}

func TestQueryTracer_WarnsOnSlowQuery(t *testing.T) {
	tr, logs := newObservedTracer(100*time.Millisecond, 250*time.Millisecond)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT id\n\t FROM profiles"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 3")})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow query", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SELECT id FROM profiles", fields["sql"])
	assert.Equal(t, int64(3), fields["rows"])
	assert.Equal(t, 250*time.Millisecond, fields["elapsed"])
}

func TestQueryTracer_QuietForFastQuery(t *testing.T) {
	tr, logs := newObservedTracer(100*time.Millisecond, 10*time.Millisecond)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Zero(t, logs.Len())
}

func TestQueryTracer_ZeroThresholdDisablesWarning(t *testing.T) {
	tr, logs := newObservedTracer(0, time.Hour)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Zero(t, logs.Len())
}

func TestQueryTracer_LogsFailure(t *testing.T) {
	tr, logs := newObservedTracer(time.Millisecond, time.Second)
	boom := errors.New("boom")

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "DELETE FROM courses"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: boom})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestQueryTracer_IgnoresEndWithoutStart(t *testing.T) {
	tr, logs := newObservedTracer(time.Nanosecond, time.Second)

	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	assert.Zero(t, logs.Len())
}
