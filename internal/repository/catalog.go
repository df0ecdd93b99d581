package repository

import (
	"context"

	"barkeep/internal/domain"
)

// Catalog defines read-only access to the shared item catalog. Single-record
// getters return nil (not an error) when the row is absent.
type Catalog interface {
	// Generic-over-kind lookups used by resolution, trade and rolls.
	GetItemByID(ctx context.Context, kind domain.ItemKind, id int) (*domain.CatalogItem, error)
	FindItemsByName(ctx context.Context, kind domain.ItemKind, name string) ([]domain.CatalogItem, error)
	GetRandomItem(ctx context.Context, kind domain.ItemKind) (*domain.CatalogItem, error)

	// Full-record getters.
	GetDrink(ctx context.Context, id int) (*domain.Drink, error)
	GetGlass(ctx context.Context, id int) (*domain.Glass, error)
	GetIngredient(ctx context.Context, id int) (*domain.Ingredient, error)
	GetDrinkIngredients(ctx context.Context, drinkID int) ([]domain.DrinkIngredient, error)

	// SearchDrinks filters by optional name substring, optional glass and a
	// required-ingredient subset (set containment), ordered by name.
	SearchDrinks(ctx context.Context, name string, ingredientIDs []int, glassID int) ([]domain.Drink, error)

	// AvailableCrafts returns every drink whose glass and full ingredient set
	// the user currently holds, ordered by name.
	AvailableCrafts(ctx context.Context, userID string) ([]domain.Drink, error)
}
