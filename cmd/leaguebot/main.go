package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hassan767275/league-bot/internal/bot"
	"github.com/Hassan767275/league-bot/internal/gateway"
	"github.com/Hassan767275/league-bot/internal/riotapi"
	"github.com/Hassan767275/league-bot/internal/telemetry"
)

func main() {
	if err := bot.LoadEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	settings, err := bot.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := telemetry.NewLogger(settings.Production)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, settings.OTLPEndpoint)
	if err != nil {
		logger.Fatalw("failed to init tracing", "error", err)
	}

	b := bot.New(logger)

	// подключим конфиг бота (кулдаун, кэш, префикс, watch)
	if err := b.UseConfig(settings.ConfigPath); err != nil {
		logger.Fatalw("failed to load bot config", "path", settings.ConfigPath, "error", err)
	}
	b.SetRiotClient(riotapi.RiotConf{APIKey: settings.RiotAPIKey, Platform: settings.Platform})
	b.SetGateway(gateway.Config{Token: settings.DiscordToken})
	b.SetGuild(settings.GuildID)

	if err := b.Start(); err != nil {
		logger.Fatalw("failed to start bot", "error", err)
	}

	logger.Infow("running… press Ctrl+C to stop", "platform", settings.Platform)

	<-ctx.Done()

	logger.Infow("shutting down")
	b.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warnw("failed to flush traces", "error", err)
	}
}
