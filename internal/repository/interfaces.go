package repository

import (
	"context"

	"track-bot/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, trackCode string) (*models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	GetByTrackCode(ctx context.Context, code string) (*models.Order, error)
	GetLast(ctx context.Context) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	UpdateDeliveryDate(ctx context.Context, id int64, date string) error

	GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
}

type ProductRepository interface {
	Create(ctx context.Context, name, description, imageURL string) (int64, error)
	AddOrderItem(ctx context.Context, orderID, productID int64, quantity int) (int64, error)
}
