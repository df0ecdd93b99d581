package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"barkeep/internal/domain"
	"barkeep/internal/logger"
	"barkeep/internal/repository"
)

// Resolution is the explicit three-case result of a name-or-id lookup:
// no match, a unique match, or multiple matches the caller must
// disambiguate. Callers cannot mistake a list for a scalar.
type Resolution struct {
	Matches []domain.CatalogItem
}

// NotFound reports whether nothing matched.
func (r Resolution) NotFound() bool { return len(r.Matches) == 0 }

// Unique returns the single match, when there is exactly one.
func (r Resolution) Unique() (domain.CatalogItem, bool) {
	if len(r.Matches) == 1 {
		return r.Matches[0], true
	}
	return domain.CatalogItem{}, false
}

// Ambiguous reports whether more than one record matched.
func (r Resolution) Ambiguous() bool { return len(r.Matches) > 1 }

// SearchParams filters a drink search. Zero values disable a filter.
type SearchParams struct {
	Name          string
	IngredientIDs []int
	GlassID       int
}

// Service defines catalog lookups
type Service interface {
	Resolve(ctx context.Context, kind domain.ItemKind, nameOrID string) (Resolution, error)
	Drink(ctx context.Context, id int) (*domain.Drink, error)
	Glass(ctx context.Context, id int) (*domain.Glass, error)
	Ingredient(ctx context.Context, id int) (*domain.Ingredient, error)
	DrinkIngredients(ctx context.Context, drinkID int) ([]domain.DrinkIngredient, error)
	RandomItem(ctx context.Context, kind domain.ItemKind) (*domain.CatalogItem, error)
	SearchDrinks(ctx context.Context, params SearchParams) ([]domain.Drink, error)
	AvailableCrafts(ctx context.Context, userID string) ([]domain.Drink, error)
}

type service struct {
	repo  repository.Catalog
	cache *recordCache
}

// NewService creates a new catalog service. Catalog rows are immutable, so
// full-record lookups go through an expiring LRU.
func NewService(repo repository.Catalog) Service {
	return &service{
		repo:  repo,
		cache: newRecordCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

// Resolve looks a record up by id when the input is a non-negative integer,
// otherwise by case-insensitive substring name match.
func (s *service) Resolve(ctx context.Context, kind domain.ItemKind, nameOrID string) (Resolution, error) {
	term := strings.TrimSpace(nameOrID)
	if term == "" {
		return Resolution{}, nil
	}

	if id, err := strconv.Atoi(term); err == nil && id >= 0 {
		item, err := s.repo.GetItemByID(ctx, kind, id)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to resolve %s %q: %w", kind, term, err)
		}
		if item == nil {
			return Resolution{}, nil
		}
		return Resolution{Matches: []domain.CatalogItem{*item}}, nil
	}

	matches, err := s.repo.FindItemsByName(ctx, kind, term)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve %s %q: %w", kind, term, err)
	}
	return Resolution{Matches: matches}, nil
}

func (s *service) Drink(ctx context.Context, id int) (*domain.Drink, error) {
	if d, ok := s.cache.getDrink(id); ok {
		return d, nil
	}

	d, err := s.repo.GetDrink(ctx, id)
	if err != nil {
		return nil, err
	}
	if d != nil {
		s.cache.putDrink(d)
	}
	return d, nil
}

func (s *service) Glass(ctx context.Context, id int) (*domain.Glass, error) {
	if g, ok := s.cache.getGlass(id); ok {
		return g, nil
	}

	g, err := s.repo.GetGlass(ctx, id)
	if err != nil {
		return nil, err
	}
	if g != nil {
		s.cache.putGlass(g)
	}
	return g, nil
}

func (s *service) Ingredient(ctx context.Context, id int) (*domain.Ingredient, error) {
	if ing, ok := s.cache.getIngredient(id); ok {
		return ing, nil
	}

	ing, err := s.repo.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing != nil {
		s.cache.putIngredient(ing)
	}
	return ing, nil
}

func (s *service) DrinkIngredients(ctx context.Context, drinkID int) ([]domain.DrinkIngredient, error) {
	return s.repo.GetDrinkIngredients(ctx, drinkID)
}

func (s *service) RandomItem(ctx context.Context, kind domain.ItemKind) (*domain.CatalogItem, error) {
	return s.repo.GetRandomItem(ctx, kind)
}

func (s *service) SearchDrinks(ctx context.Context, params SearchParams) ([]domain.Drink, error) {
	log := logger.FromContext(ctx)
	log.Debug("SearchDrinks called", "name", params.Name, "ingredients", params.IngredientIDs, "glass", params.GlassID)

	return s.repo.SearchDrinks(ctx, params.Name, params.IngredientIDs, params.GlassID)
}

func (s *service) AvailableCrafts(ctx context.Context, userID string) ([]domain.Drink, error) {
	return s.repo.AvailableCrafts(ctx, userID)
}
