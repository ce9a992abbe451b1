// Package service реализует рабочие процессы бота поверх репозиториев:
// жизненный цикл заказа и двухфазное добавление товара.
package service

import (
	"context"
	"fmt"
	"strings"

	"track-bot/internal/models"
	"track-bot/internal/repository"
	"track-bot/internal/trackcode"
)

// RecentLimit фиксированный размер списка последних заказов, пагинации нет.
const RecentLimit = 10

type OrderDetails struct {
	Order models.Order
	Lines []models.OrderLine
}

type Orders struct {
	repo repository.OrderRepository
	gen  func() string
}

func NewOrders(repo repository.OrderRepository) *Orders {
	return &Orders{repo: repo, gen: trackcode.Generate}
}

func (s *Orders) Create(ctx context.Context) (*models.Order, error) {
	return s.repo.Create(ctx, s.gen())
}

func (s *Orders) ListRecent(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListRecent(ctx, RecentLimit)
}

// UpdateLastStatus меняет статус последнего созданного заказа. Невалидный
// статус отклоняется до любого обращения к хранилищу.
func (s *Orders) UpdateLastStatus(ctx context.Context, status models.Status) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status '%s'", repository.ErrInvalidInput, status)
	}

	last, err := s.repo.GetLast(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, last.OrderID, status); err != nil {
		return nil, err
	}

	last.Status = string(status)
	return last, nil
}

// UpdateLastDelivery меняет дату доставки последнего заказа. Дата принимается
// любой непустой строкой, календарную валидацию делает хранилище.
func (s *Orders) UpdateLastDelivery(ctx context.Context, date string) (*models.Order, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, fmt.Errorf("%w: delivery date required", repository.ErrInvalidInput)
	}

	last, err := s.repo.GetLast(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDeliveryDate(ctx, last.OrderID, date); err != nil {
		return nil, err
	}

	return last, nil
}

// Lookup ищет заказ по трек-коду и собирает его позиции.
func (s *Orders) Lookup(ctx context.Context, code string) (*OrderDetails, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, repository.ErrNotFound
	}

	order, err := s.repo.GetByTrackCode(ctx, code)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetOrderLines(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}

	return &OrderDetails{Order: *order, Lines: lines}, nil
}
