package repository

import (
	"context"
	"fmt"

	"track-bot/internal/storage"
)

type productRepo struct {
	db storage.Store
}

func NewProductRepository(db storage.Store) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, name, description, imageURL string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}

	sql := `INSERT INTO products (
		name,
		description,
		image_url
	) VALUES (?, ?, ?)`

	id, err := r.db.Insert(ctx, sql, "product_id", name, description, imageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	return id, nil
}

func (r *productRepo) AddOrderItem(ctx context.Context, orderID, productID int64, quantity int) (int64, error) {
	if orderID <= 0 {
		return 0, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}
	if productID <= 0 {
		return 0, fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	sql := `INSERT INTO order_items (
		order_id,
		product_id,
		quantity
	) VALUES (?, ?, ?)`

	id, err := r.db.Insert(ctx, sql, "item_id", orderID, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to create order item: %w", err)
	}

	return id, nil
}
