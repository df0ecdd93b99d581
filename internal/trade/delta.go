package trade

import (
	"sort"

	"barkeep/internal/domain"
)

// HasItems verifies that holdings cover every item in want (quantity >=
// requested). The first insufficient item in kind-then-id order aborts with
// an error naming it; unlike craft validation the full shortfall set is not
// collected.
func HasItems(holdings, want domain.Inventory) error {
	for _, kind := range domain.Kinds() {
		bucket := want[kind]
		ids := make([]int, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for _, id := range ids {
			item := bucket[id]
			held, ok := holdings.Find(kind, id)
			if !ok || held.Amount < item.Amount {
				return &domain.InsufficientItemsError{Name: item.Name}
			}
		}
	}
	return nil
}

// Diff computes the new absolute quantity per item after applying add and
// remove on top of holdings. Both are applied to one accumulator, so an item
// appearing on both sides nets out. Results may be zero or negative; the
// store deletes such rows on write.
func Diff(holdings domain.Inventory, add, remove domain.Inventory) domain.Inventory {
	diff := domain.NewInventory()

	for _, kind := range domain.Kinds() {
		for id, item := range add[kind] {
			base, ok := diff.Find(kind, id)
			if !ok {
				if held, heldOK := holdings.Find(kind, id); heldOK {
					base = held
				} else {
					// Not held yet: start from a zero-quantity copy of the
					// added item's catalog data.
					base = item
					base.Amount = 0
				}
			}
			base.Amount += item.Amount
			diff.Put(base)
		}

		for id, item := range remove[kind] {
			base, ok := diff.Find(kind, id)
			if !ok {
				// Validation guarantees removed items are held.
				base, _ = holdings.Find(kind, id)
			}
			base.Amount -= item.Amount
			base.Kind, base.ID = kind, id
			diff.Put(base)
		}
	}

	return diff
}
