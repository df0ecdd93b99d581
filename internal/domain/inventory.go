package domain

// Holding is one positive-quantity inventory row joined with the catalog
// name it belongs to. Quantities are float64 because drink and ingredient
// amounts may be fractional; glass amounts stay integral by convention.
type Holding struct {
	Kind   ItemKind `json:"kind"`
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Amount float64  `json:"amount"`
}

// Inventory aggregates a user's holdings across the three kinds, keyed by
// catalog id. It is also used as the shape of a trade offer or request,
// where Amount carries the requested quantity rather than a held one.
type Inventory map[ItemKind]map[int]Holding

// NewInventory returns an empty inventory with all kind buckets present.
func NewInventory() Inventory {
	inv := make(Inventory, len(Kinds()))
	for _, kind := range Kinds() {
		inv[kind] = make(map[int]Holding)
	}
	return inv
}

// Put stores a holding under its own kind and id.
func (inv Inventory) Put(h Holding) {
	bucket, ok := inv[h.Kind]
	if !ok {
		bucket = make(map[int]Holding)
		inv[h.Kind] = bucket
	}
	bucket[h.ID] = h
}

// Find returns the holding for (kind, id) if present.
func (inv Inventory) Find(kind ItemKind, id int) (Holding, bool) {
	h, ok := inv[kind][id]
	return h, ok
}

// Empty reports whether the inventory holds no items of any kind.
func (inv Inventory) Empty() bool {
	for _, bucket := range inv {
		if len(bucket) > 0 {
			return false
		}
	}
	return true
}

// Count returns the number of distinct items across all kinds.
func (inv Inventory) Count() int {
	n := 0
	for _, bucket := range inv {
		n += len(bucket)
	}
	return n
}
