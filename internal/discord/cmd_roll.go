package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/metrics"
)

// RollCommand returns the roll command definition and handler
func RollCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "roll",
		Description: "Roll for a random item",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)

		result, err := svc.Roll.Roll(ctx, interactionDomainUser(user))
		if err != nil {
			respondFriendlyError(ctx, s, i, "roll", err)
			return
		}

		metrics.RollsTotal.WithLabelValues(string(result.Item.Kind)).Inc()
		sendEmbed(s, i, rollEmbed(&result.Item, result.NewAmount))
	}

	return cmd, handler
}
