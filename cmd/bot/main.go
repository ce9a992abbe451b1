package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"track-bot/internal/auth"
	"track-bot/internal/blob"
	"track-bot/internal/bot"
	"track-bot/internal/config"
	"track-bot/internal/repository"
	"track-bot/internal/service"
	"track-bot/internal/staging"
	"track-bot/internal/storage"
)

const (
	probeAttempts = 5
	probeBackoff  = time.Second
	probeTimeout  = 10 * time.Second
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"uploads": cfg.UploadsDir,
	}).Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer store.Close()

	// ограниченный режим: при недоступном хранилище бот всё равно стартует,
	// более поздние запросы могут пройти когда база поднимется
	if err := probeStore(ctx, store); err != nil {
		log.WithError(err).Warn("store is unreachable, starting in limited mode")
	} else if err := store.EnsureSchema(ctx); err != nil {
		log.WithError(err).Warn("failed to ensure schema, starting in limited mode")
	} else {
		log.Info("store connection verified")
	}

	blobs, err := blob.NewDiskStore(cfg.UploadsDir)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare uploads dir")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to telegram")
	}

	orderRepo := repository.NewOrderRepository(store)
	productRepo := repository.NewProductRepository(store)

	orders := service.NewOrders(orderRepo)
	stg := service.NewStaging(staging.NewSlot(), orderRepo, productRepo, blobs)

	b := bot.New(api, auth.NewGuard(cfg.AdminID), orders, stg, blobs, log)

	log.WithField("bot", api.Self.UserName).Info("bot started in long polling mode")
	b.Run(ctx)

	log.Info("shutdown: polling stopped, closing store pool")
}

// probeStore ограниченная серия попыток достучаться до хранилища с
// экспоненциальной паузой между ними.
func probeStore(ctx context.Context, store storage.Store) error {
	backoff := probeBackoff

	var err error
	for attempt := 1; attempt <= probeAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err = store.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == probeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
