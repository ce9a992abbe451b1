package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"track-bot/internal/models"
	"track-bot/internal/storage"
)

const dateLayout = "2006-01-02"

type orderRepo struct {
	db storage.Store
}

func NewOrderRepository(db storage.Store) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, trackCode string) (*models.Order, error) {
	if trackCode == "" {
		return nil, fmt.Errorf("%w: track code required", ErrInvalidInput)
	}

	now := time.Now()
	today := now.Format(dateLayout)

	sql := `INSERT INTO orders (
		track_code,
		status,
		delivery_date
	) VALUES (?, ?, ?)`

	id, err := r.db.Insert(ctx, sql, "order_id", trackCode, string(models.StatusPending), today)
	if err != nil {
		if storage.Classify(err) == storage.KindDuplicate {
			return nil, fmt.Errorf("%w: track code %s", ErrDuplicate, trackCode)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	delivery, _ := time.ParseInLocation(dateLayout, today, time.Local)

	return &models.Order{
		OrderID:      id,
		TrackCode:    trackCode,
		Status:       string(models.StatusPending),
		DeliveryDate: delivery,
		CreatedAt:    now,
	}, nil
}

func (r *orderRepo) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	sql := `
	SELECT
		order_id,
		track_code,
		status,
		delivery_date,
		created_at
		FROM orders
		ORDER BY order_id DESC
		LIMIT ?`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var o models.Order

		err := rows.Scan(&o.OrderID,
			&o.TrackCode,
			&o.Status,
			&o.DeliveryDate,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent orders: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) GetByTrackCode(ctx context.Context, code string) (*models.Order, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: track code cannot be empty", ErrInvalidInput)
	}

	sql := `
	SELECT
		order_id,
		track_code,
		status,
		delivery_date,
		created_at
		FROM orders
		WHERE track_code = ?`

	var order models.Order

	err := r.db.QueryRow(ctx, sql, code).Scan(
		&order.OrderID,
		&order.TrackCode,
		&order.Status,
		&order.DeliveryDate,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by track code: %w", err)
	}

	return &order, nil
}

func (r *orderRepo) GetLast(ctx context.Context) (*models.Order, error) {
	sql := `
	SELECT
		order_id,
		track_code,
		status,
		delivery_date,
		created_at
		FROM orders
		ORDER BY order_id DESC
		LIMIT 1`

	var order models.Order

	err := r.db.QueryRow(ctx, sql).Scan(
		&order.OrderID,
		&order.TrackCode,
		&order.Status,
		&order.DeliveryDate,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get last order: %w", err)
	}

	return &order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	if id <= 0 {
		return fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	// закрытый набор проверяется до обращения к хранилищу
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status '%s'", ErrInvalidInput, status)
	}

	sql := `UPDATE orders
		SET status = ?
		WHERE order_id = ?`

	affected, err := r.db.Exec(ctx, sql, string(status), id)
	if err != nil {
		return fmt.Errorf("update status order %d: %w", id, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *orderRepo) UpdateDeliveryDate(ctx context.Context, id int64, date string) error {
	if id <= 0 {
		return fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("%w: delivery date cannot be empty", ErrInvalidInput)
	}

	sql := `UPDATE orders
		SET delivery_date = ?
		WHERE order_id = ?`

	affected, err := r.db.Exec(ctx, sql, date, id)
	if err != nil {
		return fmt.Errorf("update delivery date order %d: %w", id, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetOrderLines отдаёт позиции заказа вместе с данными товара. Порядок тот,
// что вернуло хранилище: практически порядок вставки, но гарантий нет.
func (r *orderRepo) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `
	SELECT
		p.name,
		p.description,
		oi.quantity,
		p.image_url
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		WHERE oi.order_id = ?`

	rows, err := r.db.Query(ctx, sql, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines %d: %w", orderID, err)
	}

	defer rows.Close()

	var lines []models.OrderLine

	for rows.Next() {
		var line models.OrderLine
		var image *string // image_url допускает NULL

		err := rows.Scan(&line.Name,
			&line.Description,
			&line.Quantity,
			&image,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if image != nil {
			line.ImageURL = *image
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return lines, nil
}
