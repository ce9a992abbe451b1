package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"track-bot/internal/blob"
	"track-bot/internal/repository"
	"track-bot/internal/staging"
)

// ErrBlob отмечает сбой файлового хранилища при сохранении фото.
var ErrBlob = errors.New("blob storage failure")

// AttachResult итог обработки фото. Если ставшего в очередь товара не было,
// фото просто сохранено (Committed=false) — это нормальный исход, не ошибка.
type AttachResult struct {
	Ref       string
	Committed bool
	Record    staging.Record
	ProductID int64
}

type Staging struct {
	slot     *staging.Slot
	orders   repository.OrderRepository
	products repository.ProductRepository
	blobs    blob.Store
}

func NewStaging(slot *staging.Slot, orders repository.OrderRepository, products repository.ProductRepository, blobs blob.Store) *Staging {
	return &Staging{slot: slot, orders: orders, products: products, blobs: blobs}
}

// Stage разбирает "название,описание,количество", привязывает запись к
// последнему заказу и кладёт её в ячейку ожидания. Повторный вызов до фото
// перезаписывает предыдущую запись.
func (s *Staging) Stage(ctx context.Context, argline string) (*staging.Record, error) {
	parts := strings.Split(argline, ",")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: expected name,description,quantity", repository.ErrInvalidInput)
	}

	name := strings.TrimSpace(parts[0])
	description := strings.TrimSpace(parts[1])
	quantity, err := strconv.Atoi(strings.TrimSpace(strings.Join(parts[2:], ",")))
	if err != nil || quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", repository.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: product name required", repository.ErrInvalidInput)
	}

	last, err := s.orders.GetLast(ctx)
	if err != nil {
		return nil, err
	}

	rec := staging.Record{
		OrderID:     last.OrderID,
		Name:        name,
		Description: description,
		Quantity:    quantity,
	}
	s.slot.Set(rec)

	return &rec, nil
}

// AttachPhoto завершает двухфазное добавление. Файл дописывается до конца до
// любых вставок. При сбое любой из вставок запись возвращается в ячейку,
// чтобы фото можно было прислать повторно; уже сохранённый файл не
// откатывается — осиротевший blob это принятая и логируемая цена, общей
// транзакции между файловым и реляционным хранилищем нет.
func (s *Staging) AttachPhoto(ctx context.Context, name string, src io.Reader) (*AttachResult, error) {
	ref, err := s.blobs.Save(ctx, name, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlob, err)
	}

	rec, ok := s.slot.Take()
	if !ok {
		return &AttachResult{Ref: ref}, nil
	}

	productID, err := s.products.Create(ctx, rec.Name, rec.Description, ref)
	if err != nil {
		s.slot.Restore(rec)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if _, err := s.products.AddOrderItem(ctx, rec.OrderID, productID, rec.Quantity); err != nil {
		s.slot.Restore(rec)
		return nil, fmt.Errorf("failed to attach product %d to order %d: %w", productID, rec.OrderID, err)
	}

	return &AttachResult{
		Ref:       ref,
		Committed: true,
		Record:    rec,
		ProductID: productID,
	}, nil
}
