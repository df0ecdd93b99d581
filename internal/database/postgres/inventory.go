package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"barkeep/internal/domain"
	"barkeep/internal/repository"
)

// InventoryRepository implements per-user holdings persistence for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so snapshot reads
// and in-transaction reads share the same query code.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetUser returns the user row, or nil when the user has never interacted.
func (r *InventoryRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT user_id, username FROM users WHERE user_id = $1`, userID).
		Scan(&u.ID, &u.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", userID, err)
	}
	return &u, nil
}

// GetHoldings returns the user's positive-quantity rows of one kind,
// ordered by descending amount then name.
func (r *InventoryRepository) GetHoldings(ctx context.Context, userID string, kind domain.ItemKind) ([]domain.Holding, error) {
	return fetchHoldings(ctx, r.db, userID, kind)
}

// GetInventory returns a snapshot of all three kinds.
func (r *InventoryRepository) GetInventory(ctx context.Context, userID string) (domain.Inventory, error) {
	return fetchInventory(ctx, r.db, userID)
}

// BeginTx starts a transactional scope over inventory rows
func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &inventoryTx{tx: tx}, nil
}

func fetchHoldings(ctx context.Context, q querier, userID string, kind domain.ItemKind) ([]domain.Holding, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT h.%[1]s, c.name, h.amount
		FROM %[2]s AS h
		JOIN %[3]s AS c ON h.%[1]s = c.%[1]s
		WHERE h.user_id = $1
		ORDER BY h.amount DESC, c.name
	`, spec.idColumn, spec.holdingsTable, spec.catalogTable)

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s holdings: %w", kind, err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		h := domain.Holding{Kind: kind}
		if err := rows.Scan(&h.ID, &h.Name, &h.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan %s holding: %w", kind, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func fetchInventory(ctx context.Context, q querier, userID string) (domain.Inventory, error) {
	inv := domain.NewInventory()
	for _, kind := range domain.Kinds() {
		holdings, err := fetchHoldings(ctx, q, userID, kind)
		if err != nil {
			return nil, err
		}
		for _, h := range holdings {
			inv.Put(h)
		}
	}
	return inv, nil
}
