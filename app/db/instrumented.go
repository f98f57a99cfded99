package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/apuntes-marketplace/app/observability/metrics"
)

type instrumentedDB struct {
	DB
	m *metrics.AppMetrics
}

// Instrument records query durations and failures for every statement run through db.
func Instrument(db DB) DB {
	return &instrumentedDB{DB: db, m: metrics.Get()}
}

func (i *instrumentedDB) observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	i.m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		i.m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (i *instrumentedDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := i.DB.Exec(ctx, sql, args...)
	i.observe(ctx, "exec", start, err)
	return tag, err
}

func (i *instrumentedDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := i.DB.Query(ctx, sql, args...)
	i.observe(ctx, "query", start, err)
	return rows, err
}

func (i *instrumentedDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &observedRow{row: i.DB.QueryRow(ctx, sql, args...), db: i, ctx: ctx, start: time.Now()}
}

// observedRow defers the measurement to Scan, where pgx surfaces the query error.
type observedRow struct {
	row   pgx.Row
	db    *instrumentedDB
	ctx   context.Context
	start time.Time
}

func (r *observedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.db.observe(r.ctx, "query_row", r.start, err)
	return err
}
