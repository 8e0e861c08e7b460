package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/internal/app"
	"tasktracker/internal/bot"
	"tasktracker/internal/config"
	"tasktracker/internal/logger"
	"tasktracker/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		logger.Error(ctx, err, "Telegram bot stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel())
	logger.Info(ctx, "Starting Telegram bot", "backend", cfg.Storage.Backend)

	store, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := app.Open(store, app.ThemeFor(cfg.Theme.Dark))
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, a)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
