package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func pick(db *pgxpool.Pool, tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

type scanner interface {
	Scan(dest ...any) error
}

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type pgxTxRunner struct {
	db *pgxpool.Pool
}

func NewTxRunner(db *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{db: db}
}

func (r *pgxTxRunner) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, r.db, fn)
}
