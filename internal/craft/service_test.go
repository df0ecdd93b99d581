package craft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/catalog"
	"barkeep/internal/domain"
	"barkeep/internal/repository"
)

// mockCatalog serves a fixed drink/glass/ingredient set
type mockCatalog struct {
	drinks      map[int]domain.Drink
	glasses     map[int]domain.Glass
	recipes     map[int][]domain.DrinkIngredient
	resolutions map[string]catalog.Resolution
}

func (m *mockCatalog) Resolve(_ context.Context, _ domain.ItemKind, nameOrID string) (catalog.Resolution, error) {
	return m.resolutions[nameOrID], nil
}

func (m *mockCatalog) Drink(_ context.Context, id int) (*domain.Drink, error) {
	if d, ok := m.drinks[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (m *mockCatalog) Glass(_ context.Context, id int) (*domain.Glass, error) {
	if g, ok := m.glasses[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (m *mockCatalog) DrinkIngredients(_ context.Context, drinkID int) ([]domain.DrinkIngredient, error) {
	return m.recipes[drinkID], nil
}

func (m *mockCatalog) AvailableCrafts(_ context.Context, _ string) ([]domain.Drink, error) {
	return nil, nil
}

// mockRepository keeps holdings in memory; transactions buffer writes and
// apply them on Commit so rollbacks leave nothing behind.
type mockRepository struct {
	inventories map[string]domain.Inventory
	commits     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{inventories: make(map[string]domain.Inventory)}
}

func (m *mockRepository) inventory(userID string) domain.Inventory {
	inv, ok := m.inventories[userID]
	if !ok {
		inv = domain.NewInventory()
		m.inventories[userID] = inv
	}
	return inv
}

func (m *mockRepository) snapshot(userID string) domain.Inventory {
	src := m.inventory(userID)
	out := domain.NewInventory()
	for _, bucket := range src {
		for _, h := range bucket {
			out.Put(h)
		}
	}
	return out
}

func (m *mockRepository) GetInventory(_ context.Context, userID string) (domain.Inventory, error) {
	return m.snapshot(userID), nil
}

func (m *mockRepository) BeginTx(_ context.Context) (repository.Tx, error) {
	return &mockTx{repo: m, pending: make(map[string]map[domain.ItemKind][]repository.HoldingChange)}, nil
}

type mockTx struct {
	repo    *mockRepository
	pending map[string]map[domain.ItemKind][]repository.HoldingChange
	done    bool
}

func (t *mockTx) CreateUser(_ context.Context, _ domain.User) error { return nil }

func (t *mockTx) GetInventory(_ context.Context, userID string) (domain.Inventory, error) {
	return t.repo.snapshot(userID), nil
}

func (t *mockTx) SetHoldings(_ context.Context, userID string, kind domain.ItemKind, changes []repository.HoldingChange) error {
	if t.pending[userID] == nil {
		t.pending[userID] = make(map[domain.ItemKind][]repository.HoldingChange)
	}
	t.pending[userID][kind] = append(t.pending[userID][kind], changes...)
	return nil
}

func (t *mockTx) Commit(_ context.Context) error {
	for userID, kinds := range t.pending {
		inv := t.repo.inventory(userID)
		for kind, changes := range kinds {
			for _, change := range changes {
				if change.Amount > 0 {
					inv.Put(domain.Holding{Kind: kind, ID: change.ItemID, Amount: change.Amount})
				} else {
					delete(inv[kind], change.ItemID)
				}
			}
		}
	}
	t.repo.commits++
	t.done = true
	return nil
}

func (t *mockTx) Rollback(_ context.Context) error {
	if t.done {
		return repository.ErrTxDone
	}
	t.done = true
	return nil
}

// fixture: drink 100 "Margarita" needs glass 5 and ingredients 1, 2
func craftFixture() (*mockCatalog, *mockRepository, Service) {
	cat := &mockCatalog{
		drinks:  map[int]domain.Drink{100: {ID: 100, Name: "Margarita", GlassID: 5}},
		glasses: map[int]domain.Glass{5: {ID: 5, Name: "Cocktail glass"}},
		recipes: map[int][]domain.DrinkIngredient{
			100: {
				{Ingredient: domain.Ingredient{ID: 1, Name: "Tequila"}, Measure: "2 oz"},
				{Ingredient: domain.Ingredient{ID: 2, Name: "Lime juice"}, Measure: "1 oz"},
			},
		},
		resolutions: map[string]catalog.Resolution{
			"100":      {Matches: []domain.CatalogItem{{Kind: domain.KindDrink, ID: 100, Name: "Margarita"}}},
			"margarita": {Matches: []domain.CatalogItem{{Kind: domain.KindDrink, ID: 100, Name: "Margarita"}}},
		},
	}
	repo := newMockRepository()
	return cat, repo, NewService(cat, repo)
}

func stockUser(repo *mockRepository, userID string) {
	inv := repo.inventory(userID)
	inv.Put(domain.Holding{Kind: domain.KindGlass, ID: 5, Name: "Cocktail glass", Amount: 1})
	inv.Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Tequila", Amount: 3})
	inv.Put(domain.Holding{Kind: domain.KindIngredient, ID: 2, Name: "Lime juice", Amount: 1})
}

func TestCraftSuccess(t *testing.T) {
	_, repo, svc := craftFixture()
	stockUser(repo, "alice")

	res, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.NoError(t, err)
	require.NotNil(t, res.Offer)
	assert.Empty(t, res.Matches)

	amount, err := svc.Confirm(context.Background(), res.Offer)
	require.NoError(t, err)
	assert.Equal(t, 1.0, amount)

	inv := repo.inventory("alice")
	drink, ok := inv.Find(domain.KindDrink, 100)
	require.True(t, ok)
	assert.Equal(t, 1.0, drink.Amount)

	// Glass dropped to zero: row deleted, not stored as zero
	_, ok = inv.Find(domain.KindGlass, 5)
	assert.False(t, ok)

	tequila, ok := inv.Find(domain.KindIngredient, 1)
	require.True(t, ok)
	assert.Equal(t, 2.0, tequila.Amount)

	_, ok = inv.Find(domain.KindIngredient, 2)
	assert.False(t, ok)
}

func TestCraftIncrementsExistingDrink(t *testing.T) {
	_, repo, svc := craftFixture()
	stockUser(repo, "alice")
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindDrink, ID: 100, Name: "Margarita", Amount: 2})

	res, err := svc.Prepare(context.Background(), "alice", "100")
	require.NoError(t, err)

	amount, err := svc.Confirm(context.Background(), res.Offer)
	require.NoError(t, err)
	assert.Equal(t, 3.0, amount)
}

func TestCraftMissingIngredientsReportedTogether(t *testing.T) {
	_, repo, svc := craftFixture()
	inv := repo.inventory("alice")
	inv.Put(domain.Holding{Kind: domain.KindGlass, ID: 5, Name: "Cocktail glass", Amount: 1})

	_, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingIngredients))

	var missing *domain.MissingIngredientsError
	require.True(t, errors.As(err, &missing))
	assert.ElementsMatch(t, []string{"Tequila", "Lime juice"}, missing.Names)

	// No mutation happened
	assert.Equal(t, 0, repo.commits)
}

func TestCraftMissingGlass(t *testing.T) {
	_, repo, svc := craftFixture()
	inv := repo.inventory("alice")
	inv.Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Tequila", Amount: 1})
	inv.Put(domain.Holding{Kind: domain.KindIngredient, ID: 2, Name: "Lime juice", Amount: 1})

	_, err := svc.Prepare(context.Background(), "alice", "margarita")
	assert.True(t, errors.Is(err, domain.ErrMissingGlass))
}

func TestCraftUnknownDrink(t *testing.T) {
	_, _, svc := craftFixture()

	_, err := svc.Prepare(context.Background(), "alice", "nonexistent")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCraftAmbiguousNameReturnsMatches(t *testing.T) {
	cat, repo, svc := craftFixture()
	cat.resolutions["sour"] = catalog.Resolution{Matches: []domain.CatalogItem{
		{Kind: domain.KindDrink, ID: 1, Name: "Sour"},
		{Kind: domain.KindDrink, ID: 2, Name: "Whiskey Sour"},
	}}
	stockUser(repo, "alice")

	res, err := svc.Prepare(context.Background(), "alice", "sour")
	require.NoError(t, err)
	assert.Nil(t, res.Offer)
	assert.Len(t, res.Matches, 2)
}

func TestCraftGlassOnlyRecipe(t *testing.T) {
	cat, repo, svc := craftFixture()
	cat.drinks[200] = domain.Drink{ID: 200, Name: "Ice Water", GlassID: 5}
	cat.resolutions["200"] = catalog.Resolution{Matches: []domain.CatalogItem{{Kind: domain.KindDrink, ID: 200, Name: "Ice Water"}}}
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindGlass, ID: 5, Amount: 2})

	res, err := svc.Prepare(context.Background(), "alice", "200")
	require.NoError(t, err)

	amount, err := svc.Confirm(context.Background(), res.Offer)
	require.NoError(t, err)
	assert.Equal(t, 1.0, amount)

	glass, ok := repo.inventory("alice").Find(domain.KindGlass, 5)
	require.True(t, ok)
	assert.Equal(t, 1.0, glass.Amount)
}

func TestCraftValidationIsIdempotent(t *testing.T) {
	_, repo, svc := craftFixture()
	stockUser(repo, "alice")

	res, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.NoError(t, err)

	// Preparing again with no intervening mutation yields the same outcome
	res2, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.NoError(t, err)
	assert.Equal(t, res.Offer, res2.Offer)
}

func TestCraftStaleReadProtection(t *testing.T) {
	_, repo, svc := craftFixture()
	stockUser(repo, "alice")

	res, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.NoError(t, err)

	// Ingredient 2 disappears between offer and confirm
	delete(repo.inventory("alice")[domain.KindIngredient], 2)

	_, err = svc.Confirm(context.Background(), res.Offer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingIngredients))

	var missing *domain.MissingIngredientsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"Lime juice"}, missing.Names)

	// Nothing committed, other holdings untouched
	assert.Equal(t, 0, repo.commits)
	tequila, ok := repo.inventory("alice").Find(domain.KindIngredient, 1)
	require.True(t, ok)
	assert.Equal(t, 3.0, tequila.Amount)
}

func TestCraftOnlyTouchesRecipeRows(t *testing.T) {
	_, repo, svc := craftFixture()
	stockUser(repo, "alice")
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 9, Name: "Salt", Amount: 4})
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindGlass, ID: 7, Name: "Shot glass", Amount: 1})

	res, err := svc.Prepare(context.Background(), "alice", "margarita")
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), res.Offer)
	require.NoError(t, err)

	inv := repo.inventory("alice")
	salt, ok := inv.Find(domain.KindIngredient, 9)
	require.True(t, ok)
	assert.Equal(t, 4.0, salt.Amount)
	shot, ok := inv.Find(domain.KindGlass, 7)
	require.True(t, ok)
	assert.Equal(t, 1.0, shot.Amount)
}
