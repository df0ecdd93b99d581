package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"barkeep/internal/domain"
	"barkeep/internal/repository"
)

// inventoryTx implements repository.Tx on a pgx transaction
type inventoryTx struct {
	tx pgx.Tx
}

// CreateUser upserts a user, refreshing the username when the row exists.
func (t *inventoryTx) CreateUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
	`

	if _, err := t.tx.Exec(ctx, query, user.ID, user.Username); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetInventory reads the user's holdings inside the transaction, so confirm
// phases validate against rows the commit will actually touch.
func (t *inventoryTx) GetInventory(ctx context.Context, userID string) (domain.Inventory, error) {
	return fetchInventory(ctx, t.tx, userID)
}

// SetHoldings applies a batch of absolute quantities: positive amounts
// upsert the row with a fresh timestamp, anything else deletes it.
func (t *inventoryTx) SetHoldings(ctx context.Context, userID string, kind domain.ItemKind, changes []repository.HoldingChange) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}

	upsert := fmt.Sprintf(`
		INSERT INTO %[1]s (user_id, %[2]s, amount, modified)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, %[2]s) DO UPDATE SET
			amount = EXCLUDED.amount, modified = EXCLUDED.modified
	`, spec.holdingsTable, spec.idColumn)

	del := fmt.Sprintf(`DELETE FROM %[1]s WHERE user_id = $1 AND %[2]s = $2`, spec.holdingsTable, spec.idColumn)

	for _, change := range changes {
		if change.Amount > 0 {
			if _, err := t.tx.Exec(ctx, upsert, userID, change.ItemID, change.Amount); err != nil {
				return fmt.Errorf("failed to upsert %s holding %d: %w", kind, change.ItemID, err)
			}
		} else {
			if _, err := t.tx.Exec(ctx, del, userID, change.ItemID); err != nil {
				return fmt.Errorf("failed to delete %s holding %d: %w", kind, change.ItemID, err)
			}
		}
	}
	return nil
}

func (t *inventoryTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *inventoryTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxDone
		}
		return err
	}
	return nil
}
