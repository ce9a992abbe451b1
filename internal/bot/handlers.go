package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"track-bot/internal/auth"
	"track-bot/internal/blob"
	"track-bot/internal/models"
	"track-bot/internal/repository"
	"track-bot/internal/service"
	"track-bot/internal/storage"
)

// DefaultPhotoDelay пауза между последовательными фото в выдаче по заказу.
const DefaultPhotoDelay = 500 * time.Millisecond

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type photoFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

var adminMenu = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📦 Создать заказ", "create_order")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🛍️ Добавить товар", "add_product")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 Список заказов", "list_orders")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Обновить статус", "update_status")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📅 Обновить дату доставки", "update_delivery")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", "help")),
)

var userMenu = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", "help")),
)

var statusMenu = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⏳ В ожидании", "status_pending")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🚚 Отправлен", "status_shipped")),
	tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Доставлен", "status_delivered")),
)

// Handler разбирает входящие события и раздаёт их сервисам.
type Handler struct {
	api        sender
	photos     photoFetcher
	guard      *auth.Guard
	orders     *service.Orders
	staging    *service.Staging
	presenter  *Presenter
	blobs      blob.Store
	log        *logrus.Logger
	photoDelay time.Duration
}

func NewHandler(api sender, photos photoFetcher, guard *auth.Guard, orders *service.Orders, stg *service.Staging, presenter *Presenter, blobs blob.Store, log *logrus.Logger) *Handler {
	return &Handler{
		api:        api,
		photos:     photos,
		guard:      guard,
		orders:     orders,
		staging:    stg,
		presenter:  presenter,
		blobs:      blobs,
		log:        log,
		photoDelay: DefaultPhotoDelay,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil:
	case len(update.Message.Photo) > 0:
		h.handlePhoto(ctx, update.Message)
	case update.Message.IsCommand():
		h.handleCommand(ctx, update.Message)
	case update.Message.Text != "":
		h.handleLookup(ctx, update.Message)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	admin := h.guard.IsAdmin(msg.From.ID)

	switch msg.Command() {
	case "start":
		if admin {
			h.replyMenu(chatID, msgWelcomeAdmin, adminMenu)
		} else {
			h.replyMenu(chatID, msgWelcomeUser, userMenu)
		}
	case "help":
		h.replyMarkdown(chatID, helpText(admin))
	case "createorder":
		if !h.requireAdmin(chatID, admin) {
			return
		}
		h.createOrder(ctx, chatID)
	case "addproduct":
		if !h.requireAdmin(chatID, admin) {
			return
		}
		h.stageProduct(ctx, chatID, msg.CommandArguments())
	case "listorders":
		if !h.requireAdmin(chatID, admin) {
			return
		}
		h.listOrders(ctx, chatID)
	case "updateorder":
		if !h.requireAdmin(chatID, admin) {
			return
		}
		h.updateStatus(ctx, chatID, msg.CommandArguments())
	case "updatedelivery":
		if !h.requireAdmin(chatID, admin) {
			return
		}
		h.updateDelivery(ctx, chatID, msg.CommandArguments())
	}
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := h.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		h.log.WithError(err).Warn("failed to answer callback query")
	}
	if cq.Message == nil {
		return
	}

	chatID := cq.Message.Chat.ID
	admin := h.guard.IsAdmin(cq.From.ID)

	if cq.Data == "help" {
		h.replyMarkdown(chatID, helpText(admin))
		return
	}

	if !h.requireAdmin(chatID, admin) {
		return
	}

	switch cq.Data {
	case "create_order":
		h.createOrder(ctx, chatID)
	case "add_product":
		h.reply(chatID, msgAddProductPrompt)
	case "list_orders":
		h.listOrders(ctx, chatID)
	case "update_status":
		h.replyMenu(chatID, msgChooseStatus, statusMenu)
	case "status_pending":
		h.applyStatus(ctx, chatID, models.StatusPending)
	case "status_shipped":
		h.applyStatus(ctx, chatID, models.StatusShipped)
	case "status_delivered":
		h.applyStatus(ctx, chatID, models.StatusDelivered)
	case "update_delivery":
		h.reply(chatID, msgUpdateDeliveryPrompt)
	}
}

func (h *Handler) createOrder(ctx context.Context, chatID int64) {
	order, err := h.orders.Create(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to create order")
		h.reply(chatID, storeFailText(err, msgCreateOrderFailed))
		return
	}
	h.reply(chatID, orderCreatedText(order))
}

func (h *Handler) stageProduct(ctx context.Context, chatID int64, args string) {
	rec, err := h.staging.Stage(ctx, args)
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		h.reply(chatID, msgAddProductUsage)
	case errors.Is(err, repository.ErrNotFound):
		h.reply(chatID, msgNoOrderYet)
	case err != nil:
		h.log.WithError(err).Error("failed to stage product")
		h.reply(chatID, storeFailText(err, msgAddProductFailed))
	default:
		h.reply(chatID, productStagedText(rec))
	}
}

func (h *Handler) listOrders(ctx context.Context, chatID int64) {
	orders, err := h.orders.ListRecent(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list orders")
		h.reply(chatID, storeFailText(err, msgListFail))
		return
	}
	if len(orders) == 0 {
		h.reply(chatID, msgNoOrders)
		return
	}
	h.replyMarkdown(chatID, orderListText(orders))
}

func (h *Handler) updateStatus(ctx context.Context, chatID int64, args string) {
	status := models.Status(trimArg(args))
	if status == "" {
		h.reply(chatID, msgUpdateStatusUsage)
		return
	}
	if !status.Valid() {
		h.reply(chatID, msgInvalidStatus)
		return
	}
	h.applyStatus(ctx, chatID, status)
}

func (h *Handler) applyStatus(ctx context.Context, chatID int64, status models.Status) {
	order, err := h.orders.UpdateLastStatus(ctx, status)
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		h.reply(chatID, msgInvalidStatus)
	case errors.Is(err, repository.ErrNotFound):
		h.reply(chatID, msgNoOrderYet)
	case err != nil:
		h.log.WithError(err).Error("failed to update order status")
		h.reply(chatID, storeFailText(err, msgUpdateStatusFailed))
	default:
		h.reply(chatID, statusUpdatedText(order.OrderID, status))
	}
}

func (h *Handler) updateDelivery(ctx context.Context, chatID int64, args string) {
	date := trimArg(args)
	if date == "" {
		h.reply(chatID, msgUpdateDeliveryUsage)
		return
	}

	order, err := h.orders.UpdateLastDelivery(ctx, date)
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		h.reply(chatID, msgUpdateDeliveryUsage)
	case errors.Is(err, repository.ErrNotFound):
		h.reply(chatID, msgNoOrderYet)
	case err != nil:
		h.log.WithError(err).Error("failed to update delivery date")
		h.reply(chatID, storeFailText(err, msgUpdateDeliveryFailed))
	default:
		h.reply(chatID, deliveryUpdatedText(order.OrderID, date))
	}
}

// handleLookup обрабатывает свободный текст как трек-код.
func (h *Handler) handleLookup(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	details, err := h.orders.Lookup(ctx, msg.Text)
	if errors.Is(err, repository.ErrNotFound) {
		h.reply(chatID, msgTrackNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to look up order")
		h.reply(chatID, msgLookupFailed)
		return
	}

	// сводка уходит строго раньше первого фото
	h.replyMarkdown(chatID, h.presenter.Summary(details))

	for i, photo := range h.presenter.Photos(details) {
		if i > 0 {
			time.Sleep(h.photoDelay)
		}
		h.sendPhoto(chatID, photo)
	}
}

func (h *Handler) sendPhoto(chatID int64, photo Photo) {
	src, err := h.blobs.Open(photo.Ref)
	if err != nil {
		h.log.WithError(err).WithField("ref", photo.Ref).Warn("failed to open photo blob")
		return
	}
	defer src.Close()

	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileReader{Name: photo.Ref, Reader: src})
	msg.Caption = photo.Caption
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).Error("failed to send photo")
	}
}

// handlePhoto завершает добавление товара либо просто архивирует фото.
// Фото не от администратора игнорируются без ответа.
func (h *Handler) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if !h.guard.IsAdmin(msg.From.ID) {
		return
	}
	chatID := msg.Chat.ID

	// последний элемент это самый крупный вариант фото
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	src, err := h.photos.Fetch(ctx, fileID)
	if err != nil {
		h.log.WithError(err).Error("failed to download photo")
		h.reply(chatID, msgPhotoSaveFailed)
		return
	}
	defer src.Close()

	res, err := h.staging.AttachPhoto(ctx, fileID+".jpg", src)
	switch {
	case errors.Is(err, service.ErrBlob):
		h.log.WithError(err).Error("failed to store photo")
		h.reply(chatID, msgPhotoSaveFailed)
	case err != nil:
		h.log.WithError(err).Error("failed to commit staged product")
		h.reply(chatID, storeFailText(err, msgProductAttachFailed))
	case !res.Committed:
		h.reply(chatID, photoArchivedText(res.Ref))
	default:
		h.reply(chatID, productAddedText(res))
	}
}

func (h *Handler) requireAdmin(chatID int64, admin bool) bool {
	if !admin {
		h.reply(chatID, msgDenied)
	}
	return admin
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.WithError(err).Error("failed to send message")
	}
}

func (h *Handler) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).Error("failed to send message")
	}
}

func (h *Handler) replyMenu(chatID int64, text string, menu tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = menu
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).Error("failed to send message")
	}
}

// storeFailText подбирает обобщённое сообщение по виду ошибки хранилища.
// Текст ошибки драйвера пользователю не показывается.
func storeFailText(err error, fallback string) string {
	switch storage.Classify(err) {
	case storage.KindAuthDenied:
		return msgDBAuthFailed
	case storage.KindUnavailable:
		return msgDBUnreachable
	}
	return fallback
}

func trimArg(s string) string {
	return strings.TrimSpace(s)
}
