package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Fi44er/storefront/config"
	"github.com/Fi44er/storefront/db"
	"github.com/Fi44er/storefront/internal/bot"
	"github.com/Fi44er/storefront/internal/gateway"
	"github.com/Fi44er/storefront/internal/repository"
	"github.com/Fi44er/storefront/internal/server"
	"github.com/Fi44er/storefront/internal/service"
	"github.com/Fi44er/storefront/internal/storage"
	"github.com/Fi44er/storefront/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}
	logger.SetLevelName(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Fatal(err)
	}
}

// run serves until ctx is cancelled or the server fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg config.Config, logger *utils.Logger) error {
	database, err := db.ConnectDb(cfg.DB_URL, logger)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer db.Close(database, logger)

	if err := db.Migrate(database, cfg.AutoMigrate, logger); err != nil {
		return err
	}

	var notifier service.Notifier = bot.NewLogNotifier(logger)
	if cfg.TelegramBotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("failed to create bot API: %w", err)
		}
		telegramBot := bot.NewBot(api, cfg.AdminChatID, logger)
		telegramBot.Start()
		defer telegramBot.Stop()
		notifier = telegramBot
	}

	repo := repository.NewRepository(database, logger)
	svc, err := service.NewService(repo, gateway.NewSimulated(cfg.PaymentDelay, logger), notifier, &cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := seed(ctx, svc, cfg); err != nil {
		return err
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	if err != nil {
		return err
	}

	srv := server.NewServer(&cfg, svc, store, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			runErr = fmt.Errorf("server stopped: %w", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	return runErr
}

func seed(ctx context.Context, svc *service.Service, cfg config.Config) error {
	if err := svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	seeds, err := db.LoadCryptoAccountSeeds(cfg.CryptoAccountsFile)
	if err != nil {
		return fmt.Errorf("failed to load crypto accounts: %w", err)
	}
	inputs := make([]service.CryptoAccountInput, 0, len(seeds))
	for _, acc := range seeds {
		inputs = append(inputs, service.CryptoAccountInput{
			Name:        acc.Name,
			Symbol:      acc.Symbol,
			Address:     acc.Address,
			Network:     acc.Network,
			Description: acc.Description,
			IsActive:    !acc.Inactive,
			Order:       acc.Order,
		})
	}
	if err := svc.SeedCryptoAccounts(ctx, inputs); err != nil {
		return fmt.Errorf("failed to seed crypto accounts: %w", err)
	}
	return nil
}
