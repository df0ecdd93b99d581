package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"barkeep/internal/domain"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3", formatAmount(3.0))
	assert.Equal(t, "0.5", formatAmount(0.5))
}

func TestInventoryLinesEmpty(t *testing.T) {
	assert.Equal(t, "nothing", inventoryLines(domain.NewInventory()))
}

func TestDrinkEmbedIncludesRecipe(t *testing.T) {
	drink := &domain.Drink{ID: 1, Name: "Margarita", Instructions: "Shake with ice.", Alcoholic: true}
	glass := &domain.Glass{ID: 5, Name: "Cocktail glass"}
	ingredients := []domain.DrinkIngredient{
		{Ingredient: domain.Ingredient{ID: 1, Name: "Tequila"}, Measure: "1 1/2 oz"},
		{Ingredient: domain.Ingredient{ID: 2, Name: "Lime juice"}, Measure: "1 oz"},
	}

	embed := drinkEmbed(drink, glass, ingredients)

	assert.Contains(t, embed.Title, "Margarita")
	assert.Equal(t, "Shake with ice.", embed.Description)

	var fieldNames []string
	for _, f := range embed.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	assert.Contains(t, fieldNames, "Glass")
	assert.Contains(t, fieldNames, "Ingredients")

	last := embed.Fields[len(embed.Fields)-1]
	assert.Contains(t, last.Value, "Tequila")
	assert.Contains(t, last.Value, "1 1/2 oz")
}
