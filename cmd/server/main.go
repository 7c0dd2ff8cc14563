package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankaccounts/internal/cache"
	"bankaccounts/internal/config"
	"bankaccounts/internal/db"
	"bankaccounts/internal/handlers"
	"bankaccounts/internal/notify"
	"bankaccounts/internal/ratesource"
	"bankaccounts/internal/services"
	"bankaccounts/internal/store"
	"bankaccounts/internal/websocket"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	cards := store.NewCardStore(database)
	rates := store.NewCurrencyStore(database)
	messages := store.NewMessageStore(database)
	transfers := store.NewTransferStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)

	memCache := cache.New()
	hub := websocket.NewHub()
	notifier := notify.NewEmailNotifier(cfg)
	source := ratesource.New(cfg.RateSourceURL)

	currencyService := services.NewCurrencyService(txRunner, rates, source, memCache, logger)
	cardService := services.NewCardService(txRunner, cards, users, currencyService, audit, memCache, hub)
	transferService := services.NewTransferService(txRunner, cards, transfers, currencyService, audit, memCache, hub)
	messageService := services.NewMessageService(txRunner, messages, users, notifier, memCache, hub, logger)

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refreshRatesLoop(refreshCtx, currencyService, cfg.RateRefreshInterval, logger)

	handler := handlers.New(txRunner, cfg, users, audit, cardService, currencyService, messageService, transferService, memCache, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("bank accounts API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	stopRefresh()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// refreshRatesLoop keeps the currency table current. The first refresh runs
// immediately so a fresh database has rates before the first card operation.
func refreshRatesLoop(ctx context.Context, currency *services.CurrencyService, interval time.Duration, logger *zap.Logger) {
	refresh := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := currency.Refresh(refreshCtx); err != nil {
			logger.Warn("currency refresh failed", zap.Error(err))
		}
	}
	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
