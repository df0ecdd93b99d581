package trade

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"barkeep/internal/catalog"
	"barkeep/internal/domain"
	"barkeep/internal/logger"
	"barkeep/internal/repository"
)

var titleCaser = cases.Title(language.English)

// Catalog defines the catalog lookups the trade service needs
type Catalog interface {
	Resolve(ctx context.Context, kind domain.ItemKind, nameOrID string) (catalog.Resolution, error)
}

// Repository defines the inventory access the trade service needs
type Repository interface {
	GetInventory(ctx context.Context, userID string) (domain.Inventory, error)
	BeginTx(ctx context.Context) (repository.Tx, error)
}

// Party identifies one side of a trade.
type Party struct {
	ID       string
	Username string
	Bot      bool
}

// Offer is a validated trade proposal between two users. Give and Take are
// holdings-shaped inventories whose amounts are the traded quantities, not
// anyone's actual holdings; actual holdings are re-fetched at accept time.
type Offer struct {
	Initiator    Party
	Counterparty Party
	Give         domain.Inventory // items the initiator offers
	Take         domain.Inventory // items the initiator requests
}

// Receipt reports a completed trade for display.
type Receipt struct {
	InitiatorGained    []domain.Holding
	CounterpartyGained []domain.Holding
}

// Service defines trade operations
type Service interface {
	// Prepare parses and resolves both item strings and validates that each
	// party currently holds what their side promises.
	Prepare(ctx context.Context, initiator, counterparty Party, offerStr, requestStr string) (*Offer, error)

	// Execute re-validates both sides against fresh holdings and commits
	// both deltas in a single transaction. Only called on counterparty accept.
	Execute(ctx context.Context, offer *Offer) (*Receipt, error)
}

type service struct {
	catalog Catalog
	repo    Repository
}

// NewService creates a new trade service
func NewService(cat Catalog, repo Repository) Service {
	return &service{catalog: cat, repo: repo}
}

func (s *service) Prepare(ctx context.Context, initiator, counterparty Party, offerStr, requestStr string) (*Offer, error) {
	log := logger.FromContext(ctx)
	log.Info("Trade prepare", "initiator", initiator.ID, "counterparty", counterparty.ID)

	if initiator.ID == counterparty.ID {
		return nil, fmt.Errorf("%w: cannot trade with self", domain.ErrInvalidArgument)
	}
	if counterparty.Bot {
		return nil, fmt.Errorf("%w: cannot trade with a bot", domain.ErrInvalidArgument)
	}

	give, err := s.materialize(ctx, ParseItems(offerStr))
	if err != nil {
		return nil, err
	}
	take, err := s.materialize(ctx, ParseItems(requestStr))
	if err != nil {
		return nil, err
	}
	if give.Empty() && take.Empty() {
		return nil, fmt.Errorf("%w: unable to parse offer and request", domain.ErrInvalidArgument)
	}

	offer := &Offer{
		Initiator:    initiator,
		Counterparty: counterparty,
		Give:         give,
		Take:         take,
	}

	if err := s.validate(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// materialize resolves every parsed (name, amount) pair into a
// holdings-shaped inventory carrying the requested quantities. Unknown or
// ambiguous names fail the whole setup, naming the offending term.
func (s *service) materialize(ctx context.Context, parsed ParsedItems) (domain.Inventory, error) {
	items := domain.NewInventory()

	for kind, entries := range parsed {
		for _, entry := range entries {
			res, err := s.catalog.Resolve(ctx, kind, entry.Name)
			if err != nil {
				return nil, err
			}
			if res.NotFound() {
				return nil, fmt.Errorf("%w: %s with name or id %q", domain.ErrNotFound, titleCaser.String(string(kind)), entry.Name)
			}
			if res.Ambiguous() {
				return nil, &domain.AmbiguousMatchError{Kind: kind, Term: entry.Name, Matches: res.Matches}
			}

			item, _ := res.Unique()
			items.Put(domain.Holding{Kind: kind, ID: item.ID, Name: item.Name, Amount: entry.Amount})
		}
	}
	return items, nil
}

// validate checks both parties' current holdings against their side of the
// trade. Runs at offer time and again, on a fresh snapshot, at accept time.
func (s *service) validate(ctx context.Context, offer *Offer) error {
	initiatorInv, err := s.repo.GetInventory(ctx, offer.Initiator.ID)
	if err != nil {
		return fmt.Errorf("failed to get initiator inventory: %w", err)
	}
	if err := HasItems(initiatorInv, offer.Give); err != nil {
		return err
	}

	counterpartyInv, err := s.repo.GetInventory(ctx, offer.Counterparty.ID)
	if err != nil {
		return fmt.Errorf("failed to get counterparty inventory: %w", err)
	}
	return HasItems(counterpartyInv, offer.Take)
}

func (s *service) Execute(ctx context.Context, offer *Offer) (*Receipt, error) {
	log := logger.FromContext(ctx)
	log.Info("Trade execute", "initiator", offer.Initiator.ID, "counterparty", offer.Counterparty.ID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Either party may be new to the game; holdings rows reference users.
	if err := tx.CreateUser(ctx, domain.User{ID: offer.Initiator.ID, Username: offer.Initiator.Username}); err != nil {
		return nil, fmt.Errorf("failed to upsert initiator: %w", err)
	}
	if err := tx.CreateUser(ctx, domain.User{ID: offer.Counterparty.ID, Username: offer.Counterparty.Username}); err != nil {
		return nil, fmt.Errorf("failed to upsert counterparty: %w", err)
	}

	// Fresh snapshots: either party may have spent items since the offer.
	initiatorInv, err := tx.GetInventory(ctx, offer.Initiator.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get initiator inventory: %w", err)
	}
	if err := HasItems(initiatorInv, offer.Give); err != nil {
		return nil, err
	}

	counterpartyInv, err := tx.GetInventory(ctx, offer.Counterparty.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get counterparty inventory: %w", err)
	}
	if err := HasItems(counterpartyInv, offer.Take); err != nil {
		return nil, err
	}

	initiatorDiff := Diff(initiatorInv, offer.Take, offer.Give)
	counterpartyDiff := Diff(counterpartyInv, offer.Give, offer.Take)

	if err := applyDiff(ctx, tx, offer.Initiator.ID, initiatorDiff); err != nil {
		return nil, err
	}
	if err := applyDiff(ctx, tx, offer.Counterparty.ID, counterpartyDiff); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("Trade completed",
		"initiator", offer.Initiator.ID,
		"counterparty", offer.Counterparty.ID,
		"given", offer.Give.Count(),
		"taken", offer.Take.Count())

	return &Receipt{
		InitiatorGained:    flatten(offer.Take),
		CounterpartyGained: flatten(offer.Give),
	}, nil
}

func applyDiff(ctx context.Context, tx repository.Tx, userID string, diff domain.Inventory) error {
	for _, kind := range domain.Kinds() {
		bucket := diff[kind]
		if len(bucket) == 0 {
			continue
		}
		changes := make([]repository.HoldingChange, 0, len(bucket))
		for id, item := range bucket {
			changes = append(changes, repository.HoldingChange{ItemID: id, Amount: item.Amount})
		}
		if err := tx.SetHoldings(ctx, userID, kind, changes); err != nil {
			return fmt.Errorf("failed to set %s holdings: %w", kind, err)
		}
	}
	return nil
}

func flatten(inv domain.Inventory) []domain.Holding {
	var out []domain.Holding
	for _, kind := range domain.Kinds() {
		for _, item := range inv[kind] {
			out = append(out, item)
		}
	}
	return out
}
