package bot

import (
	"fmt"
	"strings"

	"track-bot/internal/models"
	"track-bot/internal/service"
	"track-bot/internal/staging"
)

const (
	msgDenied = "❌ У вас нет прав для выполнения этого действия."

	msgWelcomeAdmin = "👋 Добро пожаловать, администратор!"
	msgWelcomeUser  = "👋 Добро пожаловать! Отправьте трек-код для просмотра информации о заказе."

	msgCreateOrderFailed = "❌ Ошибка при создании заказа."
	msgDBAuthFailed      = "❌ Ошибка авторизации в базе данных. Обратитесь к администратору."
	msgDBUnreachable     = "❌ Не удается подключиться к базе данных. Попробуйте позже."

	msgAddProductUsage = "❌ Неверный формат: /addproduct название,описание,количество\n\n" +
		"(Будет добавлен к последнему заказу)\n\n" +
		"После команды отправьте фото товара"
	msgAddProductFailed = "❌ Ошибка при добавлении товара."
	msgNoOrderYet       = "❌ Сначала создайте заказ командой /createorder"

	msgNoOrders = "📋 Заказов не найдено."
	msgListFail = "❌ Ошибка при получении списка заказов."

	msgUpdateStatusUsage = "❌ Формат: /updateorder статус\n\n" +
		"Доступные статусы:\n" +
		"• Pending - В ожидании\n" +
		"• Shipped - Отправлен\n" +
		"• Delivered - Доставлен\n\n" +
		"(Будет обновлен последний заказ)"
	msgInvalidStatus      = "❌ Неверный статус! Используйте: Pending, Shipped или Delivered"
	msgUpdateStatusFailed = "❌ Ошибка при обновлении статуса."

	msgUpdateDeliveryUsage = "❌ Формат: /updatedelivery дата_доставки\n\n" +
		"Пример: /updatedelivery 2024-12-25\n\n" +
		"(Будет обновлен последний заказ)"
	msgUpdateDeliveryFailed = "❌ Ошибка при обновлении даты доставки."

	msgTrackNotFound = "❌ Заказ с таким трек-кодом не найден."
	msgLookupFailed  = "❌ Произошла ошибка при получении информации о заказе. Попробуйте позже."

	msgPhotoSaveFailed     = "❌ Ошибка при сохранении фото."
	msgProductAttachFailed = "❌ Ошибка при добавлении товара с фото."

	msgAddProductPrompt = "📝 Введите данные товара в формате:\n\n" +
		"/addproduct название,описание,количество\n\n" +
		"После команды отправьте фото товара"
	msgChooseStatus          = "📊 Выберите новый статус:"
	msgUpdateDeliveryPrompt = "📅 Введите новую дату доставки в формате:\n\n" +
		"/updatedelivery YYYY-MM-DD\n\n" +
		"Пример: /updatedelivery 2024-12-25"
)

func helpText(admin bool) string {
	var b strings.Builder
	b.WriteString("*Доступные команды:*\n\n")
	b.WriteString("• Отправьте трек-код для просмотра заказа\n")
	b.WriteString("• /help - Показать это сообщение\n")

	if admin {
		b.WriteString("\n*Команды администратора:*\n")
		b.WriteString("• /createorder - Создать новый заказ\n")
		b.WriteString("• /addproduct название,описание,количество - Добавить товар (затем отправьте фото)\n")
		b.WriteString("• /listorders - Список всех заказов\n")
		b.WriteString("• /updateorder статус - Обновить статус последнего заказа\n")
		b.WriteString("• /updatedelivery дата - Обновить дату доставки последнего заказа\n")
		b.WriteString("• Отправьте фото после /addproduct для привязки к товару\n")
	}

	return b.String()
}

func orderCreatedText(order *models.Order) string {
	date := order.DeliveryDate.Format("2006-01-02")
	return fmt.Sprintf("✅ Заказ создан!\n\n"+
		"📦 ID заказа: %d\n"+
		"🔍 Трек-код: %s\n"+
		"📊 Статус: %s\n"+
		"📅 Дата доставки: %s\n"+
		"📅 Дата создания: %s\n\n"+
		"Теперь добавьте товары командой /addproduct",
		order.OrderID, order.TrackCode, statusLabel(order.Status),
		date, order.CreatedAt.Format("2006-01-02"))
}

func productStagedText(rec *staging.Record) string {
	return fmt.Sprintf("📝 Данные товара сохранены!\n\n"+
		"🛍️ Товар: %s\n"+
		"📊 Количество: %d\n\n"+
		"📸 Теперь отправьте фото товара для завершения добавления",
		rec.Name, rec.Quantity)
}

func orderListText(orders []models.Order) string {
	var b strings.Builder
	b.WriteString("*📋 Последние заказы:*\n\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "🆔 ID: %d\n", order.OrderID)
		fmt.Fprintf(&b, "🔍 Трек: %s\n", order.TrackCode)
		fmt.Fprintf(&b, "📊 Статус: %s\n", order.Status)
		fmt.Fprintf(&b, "📅 Дата: %s\n\n", order.DeliveryDate.Format("2006-01-02"))
	}
	return b.String()
}

func statusUpdatedText(orderID int64, status models.Status) string {
	return fmt.Sprintf("✅ Статус заказа %d обновлен на: %s", orderID, statusLabel(string(status)))
}

func deliveryUpdatedText(orderID int64, date string) string {
	return fmt.Sprintf("✅ Дата доставки заказа %d обновлена на: %s", orderID, date)
}

func productAddedText(res *service.AttachResult) string {
	return fmt.Sprintf("✅ Товар с фото добавлен к заказу!\n\n"+
		"📦 ID заказа: %d\n"+
		"🛍️ Товар: %s\n"+
		"📊 Количество: %d\n"+
		"📸 Фото: %s",
		res.Record.OrderID, res.Record.Name, res.Record.Quantity, res.Ref)
}

func photoArchivedText(ref string) string {
	return fmt.Sprintf("📸 Фото сохранено как: %s\n\n"+
		"Используйте команду /addproduct для добавления товара с этим фото", ref)
}
