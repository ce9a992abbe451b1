package bot

import (
	"fmt"
	"strings"

	"track-bot/internal/blob"
	"track-bot/internal/service"
)

var statusLabels = map[string]string{
	"Pending":   "В ожидании",
	"Shipped":   "Отправлен",
	"Delivered": "Доставлен",
}

// statusLabel локализует статус; неизвестное значение уходит как есть,
// а не ломает выдачу.
func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Photo одно фото-вложение выдачи по заказу.
type Photo struct {
	Ref     string
	Caption string
}

// Presenter собирает выдачу по заказу: сводный текст и последовательность
// фото. Текст отправляется строго раньше первого фото.
type Presenter struct {
	blobs blob.Store
}

func NewPresenter(blobs blob.Store) *Presenter {
	return &Presenter{blobs: blobs}
}

func (p *Presenter) Summary(d *service.OrderDetails) string {
	var b strings.Builder

	b.WriteString("*📦 Информация о заказе*\n\n")
	fmt.Fprintf(&b, "🔍 *Трек-код:* %s\n", d.Order.TrackCode)
	fmt.Fprintf(&b, "📊 *Статус:* %s\n", statusLabel(d.Order.Status))
	fmt.Fprintf(&b, "📅 *Дата доставки:* %s\n", d.Order.DeliveryDate.Format("2006-01-02"))

	created := "Не указана"
	if !d.Order.CreatedAt.IsZero() {
		created = d.Order.CreatedAt.Format("2006-01-02")
	}
	fmt.Fprintf(&b, "📅 *Дата создания:* %s\n\n", created)

	if len(d.Lines) == 0 {
		b.WriteString("*🛍️ Товары:* Пока не добавлены\n")
		return b.String()
	}

	b.WriteString("*🛍️ Товары в заказе:*\n")
	for i, line := range d.Lines {
		fmt.Fprintf(&b, "%d. %s (Количество: %d)\n   %s\n\n", i+1, line.Name, line.Quantity, line.Description)
	}

	return b.String()
}

// Photos отдаёт вложения в порядке позиций заказа. Позиции без ссылки на
// файл или с отсутствующим файлом молча пропускаются.
func (p *Presenter) Photos(d *service.OrderDetails) []Photo {
	var photos []Photo
	for _, line := range d.Lines {
		if line.ImageURL == "" || !p.blobs.Exists(line.ImageURL) {
			continue
		}
		photos = append(photos, Photo{
			Ref:     line.ImageURL,
			Caption: fmt.Sprintf("📸 %s\n%s", line.Name, line.Description),
		})
	}
	return photos
}
