package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"barkeep/internal/catalog"
	"barkeep/internal/config"
	"barkeep/internal/confirm"
	"barkeep/internal/craft"
	"barkeep/internal/database"
	"barkeep/internal/database/postgres"
	"barkeep/internal/discord"
	"barkeep/internal/roll"
	"barkeep/internal/server"
	"barkeep/internal/trade"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	connString := cfg.DBConnString()
	if err := database.Migrate(connString); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := database.NewPool(connString, database.DefaultMaxConnections, database.DefaultMaxIdleTime, database.DefaultMaxLifetime)
	if err != nil {
		slog.Error("Failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)

	catalogSvc := catalog.NewService(catalogRepo)
	craftSvc := craft.NewService(catalogSvc, inventoryRepo)
	tradeSvc := trade.NewService(catalogSvc, inventoryRepo)
	rollSvc := roll.NewService(catalogSvc, inventoryRepo)

	ops := server.NewServer(cfg.OpsPort, pool)
	go func() {
		if err := ops.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Ops server failed", "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Stop(ctx); err != nil {
			slog.Error("Ops server shutdown failed", "error", err)
		}
	}()

	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, &discord.Services{
		Catalog:   catalogSvc,
		Craft:     craftSvc,
		Trade:     tradeSvc,
		Roll:      rollSvc,
		Inventory: inventoryRepo,
		Confirms:  confirm.NewRegistry(confirm.DefaultTTL),
		Pages:     discord.NewPaginator(10 * time.Minute),
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	bot.RegisterAll()

	forceUpdate := os.Getenv("DISCORD_FORCE_COMMAND_UPDATE") == "true"
	if err := bot.RegisterCommands(forceUpdate); err != nil {
		slog.Error("Failed to register commands", "error", err)
		// Don't exit - bot can still run if commands are already registered
	}

	if err := bot.Run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}
