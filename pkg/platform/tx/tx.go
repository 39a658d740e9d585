// Package tx carries SQL transactions through context and defines the
// StoreTx contract services use to group store writes atomically.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// StoreTx runs a function atomically with respect to the stores involved.
// SQL-backed stores pick the transaction up from context; in-memory stores
// use snapshot/restore.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQL is a StoreTx over a database handle. Stores built on the execer
// pattern participate automatically via From.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

func (s *SQL) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, dbTx)); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
