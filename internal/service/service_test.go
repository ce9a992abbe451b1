package service

import (
	"bytes"
	"context"
	"io"

	"track-bot/internal/models"
	"track-bot/internal/repository"
)

// fakeOrderRepo скриптуемый repository.OrderRepository.
type fakeOrderRepo struct {
	created      []string
	createOrder  *models.Order
	createErr    error
	recent       []models.Order
	recentErr    error
	byCode       map[string]*models.Order
	last         *models.Order
	lastErr      error
	lastCalls    int
	statusIDs    []int64
	statusVals   []models.Status
	statusErr    error
	deliveryIDs  []int64
	deliveryVals []string
	deliveryErr  error
	lines        map[int64][]models.OrderLine
	linesErr     error
}

func (f *fakeOrderRepo) Create(_ context.Context, trackCode string) (*models.Order, error) {
	f.created = append(f.created, trackCode)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOrder != nil {
		return f.createOrder, nil
	}
	return &models.Order{OrderID: 1, TrackCode: trackCode, Status: string(models.StatusPending)}, nil
}

func (f *fakeOrderRepo) ListRecent(context.Context, int) ([]models.Order, error) {
	return f.recent, f.recentErr
}

func (f *fakeOrderRepo) GetByTrackCode(_ context.Context, code string) (*models.Order, error) {
	if f.byCode != nil {
		if order, ok := f.byCode[code]; ok {
			return order, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderRepo) GetLast(context.Context) (*models.Order, error) {
	f.lastCalls++
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	return f.last, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	f.statusIDs = append(f.statusIDs, id)
	f.statusVals = append(f.statusVals, status)
	return f.statusErr
}

func (f *fakeOrderRepo) UpdateDeliveryDate(_ context.Context, id int64, date string) error {
	f.deliveryIDs = append(f.deliveryIDs, id)
	f.deliveryVals = append(f.deliveryVals, date)
	return f.deliveryErr
}

func (f *fakeOrderRepo) GetOrderLines(_ context.Context, orderID int64) ([]models.OrderLine, error) {
	if f.linesErr != nil {
		return nil, f.linesErr
	}
	return f.lines[orderID], nil
}

type productArgs struct {
	name, description, imageURL string
}

type itemArgs struct {
	orderID, productID int64
	quantity           int
}

// fakeProductRepo скриптуемый repository.ProductRepository.
type fakeProductRepo struct {
	productID  int64
	createErr  error
	created    []productArgs
	itemID     int64
	itemErr    error
	items      []itemArgs
}

func (f *fakeProductRepo) Create(_ context.Context, name, description, imageURL string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, productArgs{name: name, description: description, imageURL: imageURL})
	return f.productID, nil
}

func (f *fakeProductRepo) AddOrderItem(_ context.Context, orderID, productID int64, quantity int) (int64, error) {
	if f.itemErr != nil {
		return 0, f.itemErr
	}
	f.items = append(f.items, itemArgs{orderID: orderID, productID: productID, quantity: quantity})
	return f.itemID, nil
}

// fakeBlobStore blob.Store в памяти.
type fakeBlobStore struct {
	saved   map[string][]byte
	saveErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: make(map[string][]byte)}
}

func (f *fakeBlobStore) Save(_ context.Context, name string, src io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	f.saved[name] = data
	return name, nil
}

func (f *fakeBlobStore) Exists(ref string) bool {
	_, ok := f.saved[ref]
	return ok
}

func (f *fakeBlobStore) Open(ref string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.saved[ref])), nil
}
