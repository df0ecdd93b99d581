package repository

import (
	"context"
	"errors"

	"barkeep/internal/logger"
)

// ErrTxDone is returned by Rollback after the transaction already finished.
// SafeRollback treats it as a non-event.
var ErrTxDone = errors.New("transaction already closed")

// SafeRollback rolls back a transaction from a defer and logs any error that
// is not ErrTxDone. Rolling back an already-committed transaction is the
// normal path and must stay silent.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, ErrTxDone) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
