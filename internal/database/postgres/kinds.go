package postgres

import (
	"fmt"

	"barkeep/internal/domain"
)

// kindSpec maps an item kind onto its catalog and holdings tables. All
// kind-generic queries are built from this table instead of three parallel
// query sets.
type kindSpec struct {
	catalogTable  string
	holdingsTable string
	idColumn      string
}

var kindSpecs = map[domain.ItemKind]kindSpec{
	domain.KindDrink:      {catalogTable: "drinks", holdingsTable: "drink_holdings", idColumn: "drink_id"},
	domain.KindGlass:      {catalogTable: "glasses", holdingsTable: "glass_holdings", idColumn: "glass_id"},
	domain.KindIngredient: {catalogTable: "ingredients", holdingsTable: "ingredient_holdings", idColumn: "ingredient_id"},
}

// specFor returns the table mapping for a kind. Kinds come from the domain
// enum, so a miss is a programming error.
func specFor(kind domain.ItemKind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown item kind: %q", kind)
	}
	return spec, nil
}
