package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/domain"
)

// finishGate replaces a confirmation message with its outcome embed and
// strips the buttons. Used from gate callbacks, which run within the
// interaction token's lifetime.
func finishGate(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &noComponents,
	}); err != nil {
		slog.Error("Failed to finish confirmation message", "error", err)
	}
}

// failGate replaces a confirmation message with a friendly error line and
// strips the buttons.
func failGate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := formatFriendlyError(ctx, err)
	if _, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{},
		Components: &noComponents,
	}); editErr != nil {
		slog.Error("Failed to finish confirmation message", "error", editErr)
	}
}

// expireGate replaces an unanswered confirmation message with the expiry
// notice.
func expireGate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	content := MsgOfferExpired
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{},
		Components: &noComponents,
	}); err != nil {
		slog.Error("Failed to expire confirmation message", "error", err)
	}
}

// interactionDomainUser converts the pressing/invoking Discord user to the
// domain shape.
func interactionDomainUser(u *discordgo.User) domain.User {
	return domain.User{ID: u.ID, Username: u.Username}
}
