package craft

import (
	"context"
	"fmt"

	"barkeep/internal/catalog"
	"barkeep/internal/domain"
	"barkeep/internal/logger"
	"barkeep/internal/repository"
)

// Catalog defines the catalog lookups the craft service needs
type Catalog interface {
	Resolve(ctx context.Context, kind domain.ItemKind, nameOrID string) (catalog.Resolution, error)
	Drink(ctx context.Context, id int) (*domain.Drink, error)
	Glass(ctx context.Context, id int) (*domain.Glass, error)
	DrinkIngredients(ctx context.Context, drinkID int) ([]domain.DrinkIngredient, error)
	AvailableCrafts(ctx context.Context, userID string) ([]domain.Drink, error)
}

// Repository defines the inventory access the craft service needs
type Repository interface {
	GetInventory(ctx context.Context, userID string) (domain.Inventory, error)
	BeginTx(ctx context.Context) (repository.Tx, error)
}

// Offer is a validated craft proposal. It carries only identifiers and
// catalog data; holdings are re-fetched fresh when the offer is confirmed.
type Offer struct {
	UserID      string
	Drink       domain.Drink
	Glass       domain.Glass
	Ingredients []domain.DrinkIngredient
}

// PrepareResult is either a ready offer or, when the drink name matched
// several records, the candidates for the caller to disambiguate.
type PrepareResult struct {
	Offer   *Offer
	Matches []domain.CatalogItem
}

// Service defines craft operations
type Service interface {
	// Prepare resolves the target drink and validates the user's current
	// holdings, failing fast before any confirmation is shown.
	Prepare(ctx context.Context, userID, nameOrID string) (*PrepareResult, error)

	// Confirm re-validates against holdings fetched at confirmation time and
	// applies all deltas in one transaction. Returns the new drink amount.
	Confirm(ctx context.Context, offer *Offer) (float64, error)

	// Available lists every drink the user can craft right now.
	Available(ctx context.Context, userID string) ([]domain.Drink, error)
}

type service struct {
	catalog Catalog
	repo    Repository
}

// NewService creates a new craft service
func NewService(cat Catalog, repo Repository) Service {
	return &service{catalog: cat, repo: repo}
}

func (s *service) Prepare(ctx context.Context, userID, nameOrID string) (*PrepareResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Craft prepare", "user_id", userID, "drink", nameOrID)

	res, err := s.catalog.Resolve(ctx, domain.KindDrink, nameOrID)
	if err != nil {
		return nil, err
	}
	if res.NotFound() {
		return nil, fmt.Errorf("%w: drink %q", domain.ErrNotFound, nameOrID)
	}
	if res.Ambiguous() {
		return &PrepareResult{Matches: res.Matches}, nil
	}

	item, _ := res.Unique()
	offer, err := s.buildOffer(ctx, userID, item.ID)
	if err != nil {
		return nil, err
	}

	// Fail fast against current holdings before any confirmation UI.
	inventory, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if _, err := resolveCraft(inventory, offer); err != nil {
		return nil, err
	}

	return &PrepareResult{Offer: offer}, nil
}

func (s *service) buildOffer(ctx context.Context, userID string, drinkID int) (*Offer, error) {
	drink, err := s.catalog.Drink(ctx, drinkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drink: %w", err)
	}
	if drink == nil {
		return nil, fmt.Errorf("%w: drink %d", domain.ErrNotFound, drinkID)
	}

	glass, err := s.catalog.Glass(ctx, drink.GlassID)
	if err != nil {
		return nil, fmt.Errorf("failed to get glass: %w", err)
	}
	if glass == nil {
		return nil, fmt.Errorf("drink %d references unknown glass %d", drink.ID, drink.GlassID)
	}

	ingredients, err := s.catalog.DrinkIngredients(ctx, drink.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drink ingredients: %w", err)
	}

	return &Offer{
		UserID:      userID,
		Drink:       *drink,
		Glass:       *glass,
		Ingredients: ingredients,
	}, nil
}

func (s *service) Confirm(ctx context.Context, offer *Offer) (float64, error) {
	log := logger.FromContext(ctx)
	log.Info("Craft confirm", "user_id", offer.UserID, "drink", offer.Drink.Name)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Holdings may have changed while the user stared at the confirmation;
	// validate a fresh snapshot, never the offer-time one.
	inventory, err := tx.GetInventory(ctx, offer.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to get inventory: %w", err)
	}

	plan, err := resolveCraft(inventory, offer)
	if err != nil {
		return 0, err
	}

	for _, kind := range domain.Kinds() {
		changes := plan.changes[kind]
		if len(changes) == 0 {
			continue
		}
		if err := tx.SetHoldings(ctx, offer.UserID, kind, changes); err != nil {
			return 0, fmt.Errorf("failed to set %s holdings: %w", kind, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Drink crafted", "user_id", offer.UserID, "drink", offer.Drink.Name, "amount", plan.newAmount)
	return plan.newAmount, nil
}

func (s *service) Available(ctx context.Context, userID string) ([]domain.Drink, error) {
	return s.catalog.AvailableCrafts(ctx, userID)
}

// craftPlan is the outcome of validating one craft against a snapshot: the
// post-craft drink amount and the absolute quantities to write per kind.
type craftPlan struct {
	newAmount float64
	changes   map[domain.ItemKind][]repository.HoldingChange
}

// resolveCraft validates the offer against a holdings snapshot and computes
// the resulting deltas. Both the offer phase and the confirm phase run this
// exact function, so re-validation reports the same error kinds.
func resolveCraft(inventory domain.Inventory, offer *Offer) (*craftPlan, error) {
	newAmount := 1.0
	if held, ok := inventory.Find(domain.KindDrink, offer.Drink.ID); ok {
		newAmount = held.Amount + 1
	}

	glassHeld, ok := inventory.Find(domain.KindGlass, offer.Glass.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingGlass, offer.Glass.Name)
	}

	var (
		missing           []string
		ingredientChanges []repository.HoldingChange
	)
	for _, ingredient := range offer.Ingredients {
		held, ok := inventory.Find(domain.KindIngredient, ingredient.ID)
		if !ok {
			missing = append(missing, ingredient.Name)
			continue
		}
		ingredientChanges = append(ingredientChanges, repository.HoldingChange{
			ItemID: ingredient.ID,
			Amount: held.Amount - 1,
		})
	}
	if len(missing) > 0 {
		return nil, &domain.MissingIngredientsError{Names: missing}
	}

	return &craftPlan{
		newAmount: newAmount,
		changes: map[domain.ItemKind][]repository.HoldingChange{
			domain.KindDrink:      {{ItemID: offer.Drink.ID, Amount: newAmount}},
			domain.KindGlass:      {{ItemID: glassHeld.ID, Amount: glassHeld.Amount - 1}},
			domain.KindIngredient: ingredientChanges,
		},
	}, nil
}
