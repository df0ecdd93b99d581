package repository

import (
	"context"

	"barkeep/internal/domain"
)

// HoldingChange is one entry of a batched holdings write: the resulting
// absolute quantity for an item. Amount <= 0 deletes the row.
type HoldingChange struct {
	ItemID int
	Amount float64
}

// Inventory defines persistence for per-user holdings. Reads outside a
// transaction are snapshots; every mutation goes through a Tx so multi-row
// commits are all-or-nothing.
type Inventory interface {
	// GetUser returns the user row, or nil when the user has never
	// interacted with the game.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetHoldings(ctx context.Context, userID string, kind domain.ItemKind) ([]domain.Holding, error)
	GetInventory(ctx context.Context, userID string) (domain.Inventory, error)
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx is a transactional scope over inventory rows. Commit on normal exit,
// Rollback on any failure; nothing is observable to other operations until
// commit.
type Tx interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetInventory(ctx context.Context, userID string) (domain.Inventory, error)
	SetHoldings(ctx context.Context, userID string, kind domain.ItemKind, changes []HoldingChange) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
