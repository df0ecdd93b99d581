package roll

import (
	"context"
	"fmt"
	"math/rand"

	"barkeep/internal/domain"
	"barkeep/internal/logger"
	"barkeep/internal/repository"
)

// Catalog defines the catalog access the roll service needs
type Catalog interface {
	RandomItem(ctx context.Context, kind domain.ItemKind) (*domain.CatalogItem, error)
}

// Repository defines the inventory access the roll service needs
type Repository interface {
	GetInventory(ctx context.Context, userID string) (domain.Inventory, error)
	BeginTx(ctx context.Context) (repository.Tx, error)
}

// Result reports a completed roll for display.
type Result struct {
	Item      domain.CatalogItem
	NewAmount float64
}

// Service defines roll operations
type Service interface {
	// Roll grants the user one random catalog item and returns the item
	// with the user's new held amount.
	Roll(ctx context.Context, user domain.User) (*Result, error)
}

type service struct {
	catalog Catalog
	repo    Repository
	percent func() int
}

// NewService creates a new roll service
func NewService(cat Catalog, repo Repository) Service {
	return &service{
		catalog: cat,
		repo:    repo,
		percent: func() int { return rand.Intn(101) },
	}
}

// rollKind weights the kind distribution toward ingredients: rolls above
// 10 grant an ingredient, 1-10 a glass, 0 a drink.
func rollKind(percent int) domain.ItemKind {
	switch {
	case percent > 10:
		return domain.KindIngredient
	case percent > 0:
		return domain.KindGlass
	default:
		return domain.KindDrink
	}
}

func (s *service) Roll(ctx context.Context, user domain.User) (*Result, error) {
	log := logger.FromContext(ctx)

	kind := rollKind(s.percent())
	item, err := s.catalog.RandomItem(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to pick random %s: %w", kind, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: no %s in catalog", domain.ErrNotFound, kind)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	inventory, err := tx.GetInventory(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	newAmount := 1.0
	if held, ok := inventory.Find(kind, item.ID); ok {
		newAmount = held.Amount + 1
	}

	changes := []repository.HoldingChange{{ItemID: item.ID, Amount: newAmount}}
	if err := tx.SetHoldings(ctx, user.ID, kind, changes); err != nil {
		return nil, fmt.Errorf("failed to set holdings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Roll completed", "userID", user.ID, "kind", kind, "itemID", item.ID, "newAmount", newAmount)

	return &Result{Item: *item, NewAmount: newAmount}, nil
}
