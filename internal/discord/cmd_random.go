package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/domain"
)

// RandomCommand returns the random browse command definition and handler
func RandomCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "random",
		Description: "Show a random catalog record",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "drink",
				Description: "A random drink with its recipe",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "ingredient",
				Description: "A random ingredient",
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		switch getOptions(i)[0].Name {
		case "drink":
			item, err := svc.Catalog.RandomItem(ctx, domain.KindDrink)
			if err != nil {
				respondFriendlyError(ctx, s, i, "random", err)
				return
			}
			if item == nil {
				respondFriendlyError(ctx, s, i, "random", fmt.Errorf("%w: the catalog has no drinks", domain.ErrNotFound))
				return
			}
			showDrink(ctx, s, i, svc, fmt.Sprintf("%d", item.ID))

		case "ingredient":
			item, err := svc.Catalog.RandomItem(ctx, domain.KindIngredient)
			if err != nil {
				respondFriendlyError(ctx, s, i, "random", err)
				return
			}
			if item == nil {
				respondFriendlyError(ctx, s, i, "random", fmt.Errorf("%w: the catalog has no ingredients", domain.ErrNotFound))
				return
			}
			ing, err := svc.Catalog.Ingredient(ctx, item.ID)
			if err != nil {
				respondFriendlyError(ctx, s, i, "random", err)
				return
			}
			sendEmbed(s, i, ingredientEmbed(ing))
		}
	}

	return cmd, handler
}
