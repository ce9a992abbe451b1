package models

import "time"

// Status закрытый набор статусов заказа. Хранилище может держать статус
// открытой строкой, на границе приложения допустимы только эти три значения.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

type Order struct {
	OrderID      int64     `json:"order_id"`
	TrackCode    string    `json:"track_code"`
	Status       string    `json:"status"`
	DeliveryDate time.Time `json:"delivery_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ImageURL ссылка на blob, пустая пока фото не привязано
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ItemID    int64 `json:"item_id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderLine строка выдачи по заказу: позиция вместе с данными товара.
type OrderLine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"image_url"`
}
