package roll

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/domain"
	"barkeep/internal/repository"
)

type mockCatalog struct {
	items map[domain.ItemKind]domain.CatalogItem
}

func (m *mockCatalog) RandomItem(_ context.Context, kind domain.ItemKind) (*domain.CatalogItem, error) {
	item, ok := m.items[kind]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type mockRepository struct {
	inventories map[string]domain.Inventory
	users       map[string]string
	commits     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		inventories: make(map[string]domain.Inventory),
		users:       make(map[string]string),
	}
}

func (m *mockRepository) inventory(userID string) domain.Inventory {
	inv, ok := m.inventories[userID]
	if !ok {
		inv = domain.NewInventory()
		m.inventories[userID] = inv
	}
	return inv
}

func (m *mockRepository) GetInventory(_ context.Context, userID string) (domain.Inventory, error) {
	return m.inventory(userID), nil
}

func (m *mockRepository) BeginTx(_ context.Context) (repository.Tx, error) {
	return &mockTx{repo: m}, nil
}

type mockTx struct {
	repo *mockRepository
	done bool
}

func (t *mockTx) CreateUser(_ context.Context, user domain.User) error {
	t.repo.users[user.ID] = user.Username
	return nil
}

func (t *mockTx) GetInventory(_ context.Context, userID string) (domain.Inventory, error) {
	return t.repo.inventory(userID), nil
}

func (t *mockTx) SetHoldings(_ context.Context, userID string, kind domain.ItemKind, changes []repository.HoldingChange) error {
	inv := t.repo.inventory(userID)
	for _, change := range changes {
		if change.Amount > 0 {
			inv.Put(domain.Holding{Kind: kind, ID: change.ItemID, Amount: change.Amount})
		} else {
			delete(inv[kind], change.ItemID)
		}
	}
	return nil
}

func (t *mockTx) Commit(_ context.Context) error {
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

func rollFixture(percent int) (*mockRepository, *service) {
	cat := &mockCatalog{items: map[domain.ItemKind]domain.CatalogItem{
		domain.KindIngredient: {Kind: domain.KindIngredient, ID: 1, Name: "Gin"},
		domain.KindGlass:      {Kind: domain.KindGlass, ID: 2, Name: "Coupe"},
		domain.KindDrink:      {Kind: domain.KindDrink, ID: 3, Name: "Martini"},
	}}
	repo := newMockRepository()
	return repo, &service{catalog: cat, repo: repo, percent: func() int { return percent }}
}

var roller = domain.User{ID: "alice", Username: "Alice"}

func TestRollKindDistribution(t *testing.T) {
	tests := []struct {
		percent int
		want    domain.ItemKind
	}{
		{0, domain.KindDrink},
		{1, domain.KindGlass},
		{10, domain.KindGlass},
		{11, domain.KindIngredient},
		{100, domain.KindIngredient},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rollKind(tt.percent), "percent %d", tt.percent)
	}
}

func TestRollGrantsNewItem(t *testing.T) {
	repo, svc := rollFixture(50)

	result, err := svc.Roll(context.Background(), roller)
	require.NoError(t, err)

	assert.Equal(t, "Gin", result.Item.Name)
	assert.Equal(t, 1.0, result.NewAmount)

	held, ok := repo.inventory("alice").Find(domain.KindIngredient, 1)
	require.True(t, ok)
	assert.Equal(t, 1.0, held.Amount)
	assert.Equal(t, "Alice", repo.users["alice"])
	assert.Equal(t, 1, repo.commits)
}

func TestRollIncrementsExistingHolding(t *testing.T) {
	repo, svc := rollFixture(5)
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindGlass, ID: 2, Name: "Coupe", Amount: 3})

	result, err := svc.Roll(context.Background(), roller)
	require.NoError(t, err)

	assert.Equal(t, "Coupe", result.Item.Name)
	assert.Equal(t, 4.0, result.NewAmount)
}

func TestRollEmptyCatalogKind(t *testing.T) {
	repo := newMockRepository()
	svc := &service{
		catalog: &mockCatalog{items: map[domain.ItemKind]domain.CatalogItem{}},
		repo:    repo,
		percent: func() int { return 0 },
	}

	_, err := svc.Roll(context.Background(), roller)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, repo.commits)
}
