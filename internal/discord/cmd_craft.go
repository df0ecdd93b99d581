package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/confirm"
	"barkeep/internal/domain"
	"barkeep/internal/metrics"
)

// CraftCommand returns the craft command definition and handler
func CraftCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "craft",
		Description: "Mix drinks from your inventory",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "make",
				Description: "Mix a drink",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "drink",
						Description: "Drink name or id",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show drinks you can mix right now",
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		sub := getOptions(i)[0]
		switch sub.Name {
		case "make":
			handleCraftMake(ctx, s, i, svc, sub.Options[0].StringValue())
		case "list":
			handleCraftList(ctx, s, i, svc)
		}
	}

	return cmd, handler
}

func handleCraftMake(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, nameOrID string) {
	user := getInteractionUser(i)

	result, err := svc.Craft.Prepare(ctx, user.ID, nameOrID)
	if err != nil {
		metrics.CraftsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		respondFriendlyError(ctx, s, i, "craft", err)
		return
	}

	if len(result.Matches) > 0 {
		sendEmbed(s, i, createEmbed(
			"Which drink?",
			fmt.Sprintf("**%s** matches several drinks. Try again with one of:\n%s",
				nameOrID, strings.Join(matchLines(result.Matches), "\n")),
			0x3498db,
		))
		return
	}

	offer := result.Offer
	msg, err := sendEmbedWithComponents(s, i, craftOfferEmbed(offer), confirmButtons())
	if err != nil {
		return
	}

	svc.Confirms.Attach(msg.ID, confirm.Gate{
		Acceptors: []string{user.ID},
		Decliners: []string{user.ID},
		OnConfirm: func(ctx context.Context) error {
			newAmount, err := svc.Craft.Confirm(ctx, offer)
			if err != nil {
				metrics.CraftsTotal.WithLabelValues(metrics.OutcomeError).Inc()
				failGate(ctx, s, i, err)
				return err
			}
			metrics.CraftsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
			finishGate(s, i, createEmbed(
				fmt.Sprintf("%s %s", itemEmoji(domain.KindDrink, offer.Drink.Name), offer.Drink.Name),
				fmt.Sprintf("Mixed! You now have **%s**.", formatAmount(newAmount)),
				itemColor(offer.Drink.Name),
			))
			return nil
		},
		OnDecline: func(ctx context.Context) error {
			finishGate(s, i, createEmbed(MsgOfferDeclined, fmt.Sprintf("The %s stays unmixed.", offer.Drink.Name), 0x95a5a6))
			return nil
		},
		OnExpire: func(string) {
			expireGate(s, i)
		},
	})
}

func handleCraftList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
	user := getInteractionUser(i)

	drinks, err := svc.Craft.Available(ctx, user.ID)
	if err != nil {
		respondFriendlyError(ctx, s, i, "craft", err)
		return
	}

	if len(drinks) == 0 {
		sendEmbed(s, i, createEmbed("Nothing to mix", "You can't make any drink with what you have. Roll for more items!", 0x95a5a6))
		return
	}

	sendPaged(s, i, svc, fmt.Sprintf("%s can mix", user.Username), drinkLines(drinks), 0x2ecc71)
}
