package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Querier is the subset of pgx shared by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnAdapter adapts a pgx Querier to pgetl.DBConnection so public
// interfaces do not expose pgx row types.
type ConnAdapter struct {
	q Querier
}

func NewConnAdapter(q Querier) pgetl.DBConnection {
	return &ConnAdapter{q: q}
}

func (a *ConnAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return a.q.Exec(ctx, sql, args...)
}

func (a *ConnAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgetl.Row {
	return a.q.QueryRow(ctx, sql, args...)
}

var _ pgetl.DBConnection = (*ConnAdapter)(nil)
