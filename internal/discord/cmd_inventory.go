package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/domain"
)

// InventoryCommand returns the inventory command definition and handler
func InventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	userOption := func() *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Whose inventory (default: yours)",
			Required:    false,
		}
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        "inventory",
		Description: "Browse an inventory",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "drinks",
				Description: "Held drinks",
				Options:     []*discordgo.ApplicationCommandOption{userOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "glasses",
				Description: "Held glasses",
				Options:     []*discordgo.ApplicationCommandOption{userOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "ingredients",
				Description: "Held ingredients",
				Options:     []*discordgo.ApplicationCommandOption{userOption()},
			},
		},
	}

	kinds := map[string]domain.ItemKind{
		"drinks":      domain.KindDrink,
		"glasses":     domain.KindGlass,
		"ingredients": domain.KindIngredient,
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		sub := getOptions(i)[0]
		kind := kinds[sub.Name]

		caller := getInteractionUser(i)
		target := caller
		for _, opt := range sub.Options {
			if opt.Name == "user" {
				target = opt.UserValue(s)
			}
		}

		// Browsing someone else requires that they have played before.
		if target.ID != caller.ID {
			user, err := svc.Inventory.GetUser(ctx, target.ID)
			if err != nil {
				respondFriendlyError(ctx, s, i, "inventory", err)
				return
			}
			if user == nil {
				respondFriendlyError(ctx, s, i, "inventory",
					fmt.Errorf("%w: %s", domain.ErrUserNotFound, target.Username))
				return
			}
		}

		holdings, err := svc.Inventory.GetHoldings(ctx, target.ID, kind)
		if err != nil {
			respondFriendlyError(ctx, s, i, "inventory", err)
			return
		}

		title := fmt.Sprintf("%s's %s", target.Username, sub.Name)
		if len(holdings) == 0 {
			sendEmbed(s, i, createEmbed(title, fmt.Sprintf("No %s yet.", sub.Name), 0x95a5a6))
			return
		}

		sendPaged(s, i, svc, title, holdingLines(holdings), 0x9b59b6)
	}

	return cmd, handler
}
