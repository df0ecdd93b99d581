package discord

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/logger"
	"barkeep/internal/metrics"
)

// Component custom IDs
const (
	customIDConfirmAccept  = "confirm:accept"
	customIDConfirmDecline = "confirm:decline"
	customIDPagePrev       = "page:prev"
	customIDPageNext       = "page:next"
)

// confirmButtons returns the accept/decline row for a confirmation gate.
func confirmButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept",
					Style:    discordgo.SuccessButton,
					CustomID: customIDConfirmAccept,
				},
				discordgo.Button{
					Label:    "Decline",
					Style:    discordgo.DangerButton,
					CustomID: customIDConfirmDecline,
				},
			},
		},
	}
}

// pageButtons returns the prev/next row for a paginated listing.
func pageButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDPagePrev,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDPageNext,
				},
			},
		},
	}
}

// noComponents clears the component rows on a finished message.
var noComponents = []discordgo.MessageComponent{}

type pageState struct {
	title string
	lines []string
	color int
	page  int
	timer *time.Timer
}

func (p *pageState) totalPages() int {
	return (len(p.lines) + pageSize - 1) / pageSize
}

// Paginator keeps the line listings behind paginated messages so page
// turns don't re-query. Listings are in-memory and expire after the TTL.
type Paginator struct {
	mu      sync.Mutex
	entries map[string]*pageState
	ttl     time.Duration
}

// NewPaginator creates a paginator whose listings expire after ttl.
func NewPaginator(ttl time.Duration) *Paginator {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Paginator{
		entries: make(map[string]*pageState),
		ttl:     ttl,
	}
}

// Track stores a listing under its message ID.
func (p *Paginator) Track(messageID, title string, lines []string, color int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.entries[messageID]; ok {
		existing.timer.Stop()
	}

	timer := time.AfterFunc(p.ttl, func() {
		p.mu.Lock()
		delete(p.entries, messageID)
		p.mu.Unlock()
	})
	p.entries[messageID] = &pageState{title: title, lines: lines, color: color, timer: timer}
}

// Turn advances the listing by delta pages, clamped to the listing bounds,
// and returns the embed for the new page. Returns false for untracked or
// expired messages.
func (p *Paginator) Turn(messageID string, delta int) (*discordgo.MessageEmbed, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.entries[messageID]
	if !ok {
		return nil, false
	}

	page := state.page + delta
	if page < 0 {
		page = 0
	}
	if last := state.totalPages() - 1; page > last {
		page = last
	}
	state.page = page

	return pagedEmbed(state.title, state.lines, page, state.totalPages(), state.color), true
}

// handleComponent routes button presses: confirmation gates fire their
// callbacks, page turns re-render the tracked listing. Presses on unknown
// or foreign messages are acknowledged and otherwise ignored.
func handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services) {
	customID := i.MessageComponentData().CustomID
	user := getInteractionUser(i)
	messageID := i.Message.ID

	switch customID {
	case customIDConfirmAccept, customIDConfirmDecline:
		// Ack immediately; the gate callback edits the original message.
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			slog.Error("Failed to ack component", "error", err)
			return
		}

		ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		accept := customID == customIDConfirmAccept

		handled, err := svc.Confirms.Resolve(ctx, messageID, user.ID, accept)
		if err != nil {
			logger.FromContext(ctx).Error("Confirmation callback failed", "messageID", messageID, "error", err)
		}
		if handled {
			outcome := metrics.OutcomeDeclined
			if accept {
				outcome = metrics.OutcomeSuccess
			}
			metrics.ConfirmationsResolved.WithLabelValues(outcome).Inc()
		}

	case customIDPagePrev, customIDPageNext:
		delta := 1
		if customID == customIDPagePrev {
			delta = -1
		}

		embed, ok := svc.Pages.Turn(messageID, delta)
		if !ok {
			// Listing expired; leave the message as is.
			if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseDeferredMessageUpdate,
			}); err != nil {
				slog.Error("Failed to ack component", "error", err)
			}
			return
		}

		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: pageButtons(),
			},
		}); err != nil {
			slog.Error("Failed to turn page", "error", err)
		}
	}
}

// sendPaged sends a listing, tracking it for pagination when it spans
// more than one page.
func sendPaged(s *discordgo.Session, i *discordgo.InteractionCreate, svc *Services, title string, lines []string, color int) {
	totalPages := (len(lines) + pageSize - 1) / pageSize
	embed := pagedEmbed(title, lines, 0, totalPages, color)

	if totalPages <= 1 {
		sendEmbed(s, i, embed)
		return
	}

	msg, err := sendEmbedWithComponents(s, i, embed, pageButtons())
	if err != nil {
		return
	}
	svc.Pages.Track(msg.ID, title, lines, color)
}
