package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Every multi-step
// invariant check plus mutation (folder move, folder delete, batch
// operations) must run inside ExecSerializableTx so the validation and the
// write observe the same snapshot.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecSerializableTx executes a function within a SERIALIZABLE
	// transaction. Serialization failures surface as domain.ErrConflict.
	ExecSerializableTx(ctx context.Context, fn TxFn) error
}
