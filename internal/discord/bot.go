package discord

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"barkeep/internal/catalog"
	"barkeep/internal/confirm"
	"barkeep/internal/craft"
	"barkeep/internal/repository"
	"barkeep/internal/roll"
	"barkeep/internal/trade"
)

// Services bundles everything command handlers reach into.
type Services struct {
	Catalog   catalog.Service
	Craft     craft.Service
	Trade     trade.Service
	Roll      roll.Service
	Inventory repository.Inventory
	Confirms  *confirm.Registry
	Pages     *Paginator
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	GuildID  string
	Registry *CommandRegistry
	Services *Services
}

// Config holds the bot configuration
type Config struct {
	Token   string
	AppID   string
	GuildID string
}

// New creates a new Discord bot
func New(cfg Config, svc *Services) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	return &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
		Registry: NewCommandRegistry(),
		Services: svc,
	}, nil
}

// RegisterAll wires every command into the registry.
func (b *Bot) RegisterAll() {
	for _, build := range []func() (*discordgo.ApplicationCommand, CommandHandler){
		RollCommand,
		CraftCommand,
		TradeCommand,
		SearchCommand,
		InventoryCommand,
		RandomCommand,
	} {
		cmd, handler := build()
		b.Registry.Register(cmd, handler)
	}
}

// Start starts the bot
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	b.Session.Close()
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if b.Registry != nil {
			b.Registry.Handle(s, i, b.Services)
		}
	case discordgo.InteractionMessageComponent:
		handleComponent(s, i, b.Services)
	}
}
