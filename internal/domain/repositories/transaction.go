package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Services use it for the
// multi-row writes that must land atomically: folder deletion (cascade or
// reparent), batch requirement moves, and project-wide tag rewrites.
type TransactionManager interface {
	// ExecTx executes a function within a transaction. The transaction is
	// carried in the returned context; repository calls made with that
	// context run inside it.
	ExecTx(ctx context.Context, fn TxFn) error
}
