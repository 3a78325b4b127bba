package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"bazar-bot/config"
	"bazar-bot/internal/bot"
	"bazar-bot/internal/localization"
	"bazar-bot/internal/scheduler"
	"bazar-bot/internal/storage"

	"go.uber.org/zap"
)

//go:embed locales
var localeFiles embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("starting listing bot", zap.String("database", cfg.DatabasePath), zap.Int64("mod_group_id", cfg.ModGroupID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := storage.NewStorage(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer dbStorage.Close()

	localizer, err := localization.NewLocalizer(localeFiles, logger)
	if err != nil {
		logger.Fatal("failed to load messages", zap.Error(err))
	}

	appScheduler, err := scheduler.NewScheduler(logger)
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	defer appScheduler.Shutdown()

	telegramBot, err := bot.NewBot(&cfg, localizer, dbStorage, appScheduler, logger)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}
	logger.Info("bot is running")
	telegramBot.Start(ctx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
