package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/craft"
	"barkeep/internal/domain"
	"barkeep/internal/trade"
)

// pageSize is the number of list lines per embed page.
const pageSize = 10

// drinkEmbed renders a full drink record with its recipe.
func drinkEmbed(drink *domain.Drink, glass *domain.Glass, ingredients []domain.DrinkIngredient) *discordgo.MessageEmbed {
	embed := createEmbed(
		fmt.Sprintf("%s %s", itemEmoji(domain.KindDrink, drink.Name), drink.Name),
		drink.Instructions,
		itemColor(drink.Name),
	)

	if drink.Category != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Category", Value: drink.Category, Inline: true,
		})
	}
	if drink.Alcoholic {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Alcoholic", Value: "Yes", Inline: true,
		})
	}
	if glass != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Glass",
			Value:  fmt.Sprintf("%s %s", itemEmoji(domain.KindGlass, glass.Name), glass.Name),
			Inline: true,
		})
	}
	if len(ingredients) > 0 {
		var lines []string
		for _, ing := range ingredients {
			line := fmt.Sprintf("%s %s", itemEmoji(domain.KindIngredient, ing.Name), ing.Name)
			if ing.Measure != "" {
				line += fmt.Sprintf(" — %s", ing.Measure)
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Ingredients", Value: strings.Join(lines, "\n"),
		})
	}
	if drink.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: drink.Thumbnail}
	}
	return embed
}

// ingredientEmbed renders a full ingredient record.
func ingredientEmbed(ing *domain.Ingredient) *discordgo.MessageEmbed {
	embed := createEmbed(
		fmt.Sprintf("%s %s", itemEmoji(domain.KindIngredient, ing.Name), ing.Name),
		ing.Description,
		itemColor(ing.Name),
	)
	if ing.Type != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Type", Value: ing.Type, Inline: true,
		})
	}
	if ing.Alcohol {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Alcoholic", Value: "Yes", Inline: true,
		})
	}
	return embed
}

// glassEmbed renders a glass record.
func glassEmbed(glass *domain.Glass) *discordgo.MessageEmbed {
	return createEmbed(
		fmt.Sprintf("%s %s", itemEmoji(domain.KindGlass, glass.Name), glass.Name),
		"",
		itemColor(glass.Name),
	)
}

// rollEmbed announces a rolled item and the new held amount.
func rollEmbed(result *domain.CatalogItem, newAmount float64) *discordgo.MessageEmbed {
	return createEmbed(
		"🎲 You got something!",
		fmt.Sprintf("%s **%s**\nYou now have **%s**.",
			itemEmoji(result.Kind, result.Name), result.Name, formatAmount(newAmount)),
		itemColor(result.Name),
	)
}

// craftOfferEmbed shows the recipe about to be crafted.
func craftOfferEmbed(offer *craft.Offer) *discordgo.MessageEmbed {
	var lines []string
	lines = append(lines, fmt.Sprintf("Glass: %s %s", itemEmoji(domain.KindGlass, offer.Glass.Name), offer.Glass.Name))
	for _, ing := range offer.Ingredients {
		lines = append(lines, fmt.Sprintf("%s %s −1", itemEmoji(domain.KindIngredient, ing.Name), ing.Name))
	}
	embed := createEmbed(
		fmt.Sprintf("Mix a %s?", offer.Drink.Name),
		strings.Join(lines, "\n"),
		itemColor(offer.Drink.Name),
	)
	return embed
}

// tradeOfferEmbed shows both sides of a proposed trade.
func tradeOfferEmbed(offer *trade.Offer) *discordgo.MessageEmbed {
	embed := createEmbed(
		fmt.Sprintf("🤝 %s → %s", offer.Initiator.Username, offer.Counterparty.Username),
		fmt.Sprintf("%s, do you accept?", offer.Counterparty.Username),
		0x3498db,
	)
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s gives", offer.Initiator.Username),
			Value:  inventoryLines(offer.Give),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s gives", offer.Counterparty.Username),
			Value:  inventoryLines(offer.Take),
			Inline: true,
		},
	)
	return embed
}

// inventoryLines flattens an offer-shaped inventory to display lines.
func inventoryLines(inv domain.Inventory) string {
	var lines []string
	for _, kind := range domain.Kinds() {
		for _, item := range inv[kind] {
			lines = append(lines, fmt.Sprintf("%s **%s** ×%s", itemEmoji(kind, item.Name), item.Name, formatAmount(item.Amount)))
		}
	}
	if len(lines) == 0 {
		return "nothing"
	}
	return strings.Join(lines, "\n")
}

// receiptLines renders one side of a trade receipt.
func receiptLines(gained []domain.Holding) string {
	if len(gained) == 0 {
		return "nothing"
	}
	return strings.Join(holdingLines(gained), "\n")
}

// holdingLines renders holdings in store order, one line per item.
func holdingLines(holdings []domain.Holding) []string {
	lines := make([]string, 0, len(holdings))
	for _, h := range holdings {
		lines = append(lines, fmt.Sprintf("%s **%s** ×%s", itemEmoji(h.Kind, h.Name), h.Name, formatAmount(h.Amount)))
	}
	return lines
}

// drinkLines renders catalog drinks, one line per record.
func drinkLines(drinks []domain.Drink) []string {
	lines := make([]string, 0, len(drinks))
	for _, d := range drinks {
		lines = append(lines, fmt.Sprintf("%s **%s** (%d)", itemEmoji(domain.KindDrink, d.Name), d.Name, d.ID))
	}
	return lines
}

// matchLines renders resolution candidates for disambiguation.
func matchLines(matches []domain.CatalogItem) []string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("%s **%s** (%d)", itemEmoji(m.Kind, m.Name), m.Name, m.ID))
	}
	return lines
}

// formatAmount drops the trailing .0 on whole quantities.
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%g", amount)
}

// pagedEmbed builds the embed for one page of a line listing.
func pagedEmbed(title string, lines []string, page, totalPages int, color int) *discordgo.MessageEmbed {
	start := page * pageSize
	end := start + pageSize
	if end > len(lines) {
		end = len(lines)
	}

	embed := createEmbed(title, strings.Join(lines[start:end], "\n"), color)
	if totalPages > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · page %d/%d", FooterBarkeep, page+1, totalPages),
		}
	}
	return embed
}
