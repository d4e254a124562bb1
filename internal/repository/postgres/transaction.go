package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/repositories"
)

// TransactionManager implements the repositories.TransactionManager
// interface on top of a pgx pool.
type TransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool) repositories.TransactionManager {
	return &TransactionManager{pool: pool}
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return tm.run(ctx, pgx.TxOptions{}, fn)
}

// ExecSerializableTx executes a function within a SERIALIZABLE transaction.
// A serialization failure means a concurrent writer won the race; it is
// surfaced as domain.ErrConflict so the client can retry.
func (tm *TransactionManager) ExecSerializableTx(ctx context.Context, fn repositories.TxFn) error {
	err := tm.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
	if err != nil && isPgSerializationError(err) {
		return fmt.Errorf("%w: concurrent modification, retry the request", domain.ErrConflict)
	}
	return err
}

func (tm *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, fn repositories.TxFn) error {
	tx, err := tm.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Rollback is a no-op after a successful commit
	defer tx.Rollback(ctx)

	// Store the transaction in the context so repositories join it
	txCtx := repositories.SetTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
