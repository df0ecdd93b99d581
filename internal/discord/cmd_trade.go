package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/confirm"
	"barkeep/internal/metrics"
	"barkeep/internal/trade"
)

// TradeCommand returns the trade command definition and handler
func TradeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "trade",
		Description: "Offer a trade to another user",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Who to trade with",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "offer",
				Description: "What you give, e.g. \"i:lime juice:2 g:coupe\"",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "request",
				Description: "What you want in return",
				Required:    false,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
		if !deferResponse(s, i) {
			return
		}

		initiator := getInteractionUser(i)

		var counterparty *discordgo.User
		var offerStr, requestStr string
		for _, opt := range getOptions(i) {
			switch opt.Name {
			case "user":
				counterparty = opt.UserValue(s)
			case "offer":
				offerStr = opt.StringValue()
			case "request":
				requestStr = opt.StringValue()
			}
		}

		offer, err := svc.Trade.Prepare(ctx,
			trade.Party{ID: initiator.ID, Username: initiator.Username, Bot: initiator.Bot},
			trade.Party{ID: counterparty.ID, Username: counterparty.Username, Bot: counterparty.Bot},
			offerStr, requestStr)
		if err != nil {
			metrics.TradesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			respondFriendlyError(ctx, s, i, "trade", err)
			return
		}

		msg, err := sendEmbedWithComponents(s, i, tradeOfferEmbed(offer), confirmButtons())
		if err != nil {
			return
		}

		// Only the counterparty accepts; either party may decline.
		svc.Confirms.Attach(msg.ID, confirm.Gate{
			Acceptors: []string{offer.Counterparty.ID},
			Decliners: []string{offer.Initiator.ID, offer.Counterparty.ID},
			OnConfirm: func(ctx context.Context) error {
				receipt, err := svc.Trade.Execute(ctx, offer)
				if err != nil {
					metrics.TradesTotal.WithLabelValues(metrics.OutcomeError).Inc()
					failGate(ctx, s, i, err)
					return err
				}
				metrics.TradesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

				embed := createEmbed("🤝 Trade complete!", "", 0x2ecc71)
				embed.Fields = append(embed.Fields,
					&discordgo.MessageEmbedField{
						Name:   fmt.Sprintf("%s received", offer.Initiator.Username),
						Value:  receiptLines(receipt.InitiatorGained),
						Inline: true,
					},
					&discordgo.MessageEmbedField{
						Name:   fmt.Sprintf("%s received", offer.Counterparty.Username),
						Value:  receiptLines(receipt.CounterpartyGained),
						Inline: true,
					},
				)
				finishGate(s, i, embed)
				return nil
			},
			OnDecline: func(ctx context.Context) error {
				finishGate(s, i, createEmbed(MsgOfferDeclined, "No items changed hands.", 0x95a5a6))
				return nil
			},
			OnExpire: func(string) {
				expireGate(s, i)
			},
		})
	}

	return cmd, handler
}
