// Package bot транспортный слой: Telegram long polling, маршрутизация
// команд, колбэков, фото и свободного текста.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"track-bot/internal/auth"
	"track-bot/internal/blob"
	"track-bot/internal/service"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	log     *logrus.Logger
}

func New(api *tgbotapi.BotAPI, guard *auth.Guard, orders *service.Orders, stg *service.Staging, blobs blob.Store, log *logrus.Logger) *Bot {
	fetcher := &apiPhotoFetcher{
		api:    api,
		client: &http.Client{Timeout: 60 * time.Second},
	}
	handler := NewHandler(api, fetcher, guard, orders, stg, NewPresenter(blobs), blobs, log)
	return &Bot{api: api, handler: handler, log: log}
}

// Run крутит long polling до отмены контекста. Каждое событие обрабатывается
// в своей горутине: единственный разделяемый ресурс это ячейка ожидающего
// товара, остальное тянет пул соединений хранилища.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handler.HandleUpdate(ctx, update)
		}
	}
}

// apiPhotoFetcher скачивает файл по ссылке Bot API обычным HTTP-запросом.
type apiPhotoFetcher struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

func (f *apiPhotoFetcher) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	file, err := f.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(f.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected download status %s", resp.Status)
	}

	return resp.Body, nil
}
