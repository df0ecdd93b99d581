package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryPutFind(t *testing.T) {
	inv := NewInventory()
	assert.True(t, inv.Empty())

	inv.Put(Holding{Kind: KindGlass, ID: 5, Name: "Highball glass", Amount: 2})
	inv.Put(Holding{Kind: KindIngredient, ID: 5, Name: "Lime", Amount: 1})

	h, ok := inv.Find(KindGlass, 5)
	assert.True(t, ok)
	assert.Equal(t, "Highball glass", h.Name)
	assert.Equal(t, 2.0, h.Amount)

	// Same id under another kind is a distinct holding
	h, ok = inv.Find(KindIngredient, 5)
	assert.True(t, ok)
	assert.Equal(t, "Lime", h.Name)

	_, ok = inv.Find(KindDrink, 5)
	assert.False(t, ok)

	assert.False(t, inv.Empty())
	assert.Equal(t, 2, inv.Count())
}

func TestInventoryPutCreatesMissingBucket(t *testing.T) {
	inv := Inventory{}
	inv.Put(Holding{Kind: KindDrink, ID: 1, Amount: 1})

	_, ok := inv.Find(KindDrink, 1)
	assert.True(t, ok)
}

func TestParseItemKind(t *testing.T) {
	cases := map[string]ItemKind{
		"d": KindDrink, "drink": KindDrink,
		"g": KindGlass, "glass": KindGlass,
		"i": KindIngredient, "ingredient": KindIngredient,
	}
	for token, want := range cases {
		kind, ok := ParseItemKind(token)
		assert.True(t, ok, token)
		assert.Equal(t, want, kind)
	}

	for _, token := range []string{"", "drinks", "x", "D"} {
		_, ok := ParseItemKind(token)
		assert.False(t, ok, token)
	}
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	var err error = &MissingIngredientsError{Names: []string{"Lime", "Sugar"}}
	assert.True(t, errors.Is(err, ErrMissingIngredients))
	assert.Contains(t, err.Error(), "Lime, Sugar")

	err = &InsufficientItemsError{Name: "Old Fashioned glass"}
	assert.True(t, errors.Is(err, ErrInsufficientItems))
	assert.Contains(t, err.Error(), "Old Fashioned glass")

	err = &AmbiguousMatchError{Kind: KindDrink, Term: "sour", Matches: []CatalogItem{{}, {}}}
	assert.True(t, errors.Is(err, ErrAmbiguousMatch))
	assert.Contains(t, err.Error(), `"sour"`)
}
