package trade

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barkeep/internal/catalog"
	"barkeep/internal/domain"
	"barkeep/internal/repository"
)

// mockCatalog resolves against a fixed {kind, id, name} set
type mockCatalog struct {
	items []domain.CatalogItem
}

func (m *mockCatalog) Resolve(_ context.Context, kind domain.ItemKind, nameOrID string) (catalog.Resolution, error) {
	term := strings.TrimSpace(nameOrID)
	var matches []domain.CatalogItem

	if id, err := strconv.Atoi(term); err == nil && id >= 0 {
		for _, item := range m.items {
			if item.Kind == kind && item.ID == id {
				matches = append(matches, item)
			}
		}
		return catalog.Resolution{Matches: matches}, nil
	}

	for _, item := range m.items {
		if item.Kind == kind && strings.Contains(strings.ToLower(item.Name), strings.ToLower(term)) {
			matches = append(matches, item)
		}
	}
	return catalog.Resolution{Matches: matches}, nil
}

// mockRepository keeps holdings in memory; transactions buffer writes and
// apply them on Commit.
type mockRepository struct {
	inventories map[string]domain.Inventory
	users       []domain.User
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
	out := domain.NewInventory()
	for _, bucket := range m.inventory(userID) {
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

func (t *mockTx) CreateUser(_ context.Context, user domain.User) error {
	t.repo.users = append(t.repo.users, user)
	return nil
}

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

func tradeFixture() (*mockRepository, Service) {
	cat := &mockCatalog{items: []domain.CatalogItem{
		{Kind: domain.KindIngredient, ID: 1, Name: "Rum"},
		{Kind: domain.KindGlass, ID: 2, Name: "Highball glass"},
		{Kind: domain.KindDrink, ID: 3, Name: "Mojito"},
		{Kind: domain.KindDrink, ID: 4, Name: "Sour"},
		{Kind: domain.KindDrink, ID: 5, Name: "Whiskey Sour"},
	}}
	repo := newMockRepository()
	return repo, NewService(cat, repo)
}

var (
	alice = Party{ID: "alice", Username: "Alice"}
	bob   = Party{ID: "bob", Username: "Bob"}
)

func TestTradeConservation(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 10})
	repo.inventory("bob").Put(domain.Holding{Kind: domain.KindGlass, ID: 2, Name: "Highball glass", Amount: 3})

	offer, err := svc.Prepare(context.Background(), alice, bob, "i:rum:5", "g:highball:2")
	require.NoError(t, err)

	receipt, err := svc.Execute(context.Background(), offer)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	aliceInv := repo.inventory("alice")
	bobInv := repo.inventory("bob")

	rumA, _ := aliceInv.Find(domain.KindIngredient, 1)
	assert.Equal(t, 5.0, rumA.Amount)
	glassA, _ := aliceInv.Find(domain.KindGlass, 2)
	assert.Equal(t, 2.0, glassA.Amount)

	rumB, _ := bobInv.Find(domain.KindIngredient, 1)
	assert.Equal(t, 5.0, rumB.Amount)
	glassB, _ := bobInv.Find(domain.KindGlass, 2)
	assert.Equal(t, 1.0, glassB.Amount)

	// Conservation: totals per item unchanged
	assert.Equal(t, 10.0, rumA.Amount+rumB.Amount)
	assert.Equal(t, 3.0, glassA.Amount+glassB.Amount)
	assert.Equal(t, 1, repo.commits)
}

func TestTradeSelfRejected(t *testing.T) {
	_, svc := tradeFixture()

	_, err := svc.Prepare(context.Background(), alice, alice, "i:rum:1", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestTradeBotRejected(t *testing.T) {
	_, svc := tradeFixture()

	_, err := svc.Prepare(context.Background(), alice, Party{ID: "robo", Bot: true}, "i:rum:1", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestTradeEmptyBothSidesRejected(t *testing.T) {
	_, svc := tradeFixture()

	_, err := svc.Prepare(context.Background(), alice, bob, "nothing here", "also nothing")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestTradeOneSidedGiftAllowed(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 2})

	offer, err := svc.Prepare(context.Background(), alice, bob, "i:rum:2", "")
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), offer)
	require.NoError(t, err)

	_, ok := repo.inventory("alice").Find(domain.KindIngredient, 1)
	assert.False(t, ok, "row deleted when quantity reaches zero")
	rum, _ := repo.inventory("bob").Find(domain.KindIngredient, 1)
	assert.Equal(t, 2.0, rum.Amount)
}

func TestTradeUpsertsBothPartiesBeforeWriting(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 2})

	// Bob has never interacted before; their user row must exist before a
	// holdings row can reference it.
	offer, err := svc.Prepare(context.Background(), alice, bob, "i:rum:2", "")
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), offer)
	require.NoError(t, err)

	require.Len(t, repo.users, 2)
	assert.Equal(t, domain.User{ID: "alice", Username: "Alice"}, repo.users[0])
	assert.Equal(t, domain.User{ID: "bob", Username: "Bob"}, repo.users[1])
}

func TestTradeInsufficientOfferFailsBeforeConfirmation(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 3})

	_, err := svc.Prepare(context.Background(), alice, bob, "i:rum:5", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientItems))

	var insufficient *domain.InsufficientItemsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Rum", insufficient.Name)
	assert.Equal(t, 0, repo.commits)
}

func TestTradeCounterpartyShortfallNamed(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 5})

	_, err := svc.Prepare(context.Background(), alice, bob, "i:rum:5", "g:highball:1")
	require.Error(t, err)

	var insufficient *domain.InsufficientItemsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Highball glass", insufficient.Name)
}

func TestTradeUnknownItemFailsSetup(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 5})

	_, err := svc.Prepare(context.Background(), alice, bob, "i:unobtainium:1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "unobtainium")
}

func TestTradeAmbiguousItemFailsSetup(t *testing.T) {
	_, svc := tradeFixture()

	_, err := svc.Prepare(context.Background(), alice, bob, "d:sour:1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousMatch))

	var ambiguous *domain.AmbiguousMatchError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "sour", ambiguous.Term)
	assert.Len(t, ambiguous.Matches, 2)
}

func TestTradeStaleReadProtection(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 5})
	repo.inventory("bob").Put(domain.Holding{Kind: domain.KindGlass, ID: 2, Name: "Highball glass", Amount: 1})

	offer, err := svc.Prepare(context.Background(), alice, bob, "i:rum:5", "g:highball:1")
	require.NoError(t, err)

	// Bob loses their glass between offer and accept
	delete(repo.inventory("bob")[domain.KindGlass], 2)

	_, err = svc.Execute(context.Background(), offer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientItems))

	// No partial mutation
	assert.Equal(t, 0, repo.commits)
	rum, _ := repo.inventory("alice").Find(domain.KindIngredient, 1)
	assert.Equal(t, 5.0, rum.Amount)
}

func TestTradeSameItemBothSidesNetsOut(t *testing.T) {
	repo, svc := tradeFixture()
	repo.inventory("alice").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 5})
	repo.inventory("bob").Put(domain.Holding{Kind: domain.KindIngredient, ID: 1, Name: "Rum", Amount: 2})

	offer, err := svc.Prepare(context.Background(), alice, bob, "i:rum:3", "i:rum:1")
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), offer)
	require.NoError(t, err)

	rumA, _ := repo.inventory("alice").Find(domain.KindIngredient, 1)
	assert.Equal(t, 3.0, rumA.Amount) // 5 - 3 + 1
	rumB, _ := repo.inventory("bob").Find(domain.KindIngredient, 1)
	assert.Equal(t, 4.0, rumB.Amount) // 2 + 3 - 1
}
