package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track-bot/internal/models"
	"track-bot/internal/storage"
)

type storeCall struct {
	query string
	args  []any
}

// fakeStore скриптуемый storage.Store: отдаёт заранее заданные строки и
// записывает все обращения.
type fakeStore struct {
	execAffected int64
	execErr      error
	insertID     int64
	insertErr    error
	queryErr     error
	rows         [][]any
	rowScanErr   error
	rowVals      []any

	execCalls   []storeCall
	insertCalls []storeCall
	queryCalls  []storeCall
}

func (f *fakeStore) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.execCalls = append(f.execCalls, storeCall{query: query, args: args})
	return f.execAffected, f.execErr
}

func (f *fakeStore) Query(_ context.Context, query string, args ...any) (storage.Rows, error) {
	f.queryCalls = append(f.queryCalls, storeCall{query: query, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeStore) QueryRow(_ context.Context, query string, args ...any) storage.Row {
	f.queryCalls = append(f.queryCalls, storeCall{query: query, args: args})
	return fakeRow{vals: f.rowVals, err: f.rowScanErr}
}

func (f *fakeStore) Insert(_ context.Context, query string, _ string, args ...any) (int64, error) {
	f.insertCalls = append(f.insertCalls, storeCall{query: query, args: args})
	return f.insertID, f.insertErr
}

func (f *fakeStore) Ping(context.Context) error         { return nil }
func (f *fakeStore) EnsureSchema(context.Context) error { return nil }
func (f *fakeStore) Close()                             {}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.rows[r.pos-1])
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(vals), len(dest))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			*d = vals[i].(int64)
		case *int:
			*d = vals[i].(int)
		case *string:
			*d = vals[i].(string)
		case **string:
			if vals[i] == nil {
				*d = nil
			} else {
				s := vals[i].(string)
				*d = &s
			}
		case *time.Time:
			*d = vals[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}

func TestCreateOrder(t *testing.T) {
	store := &fakeStore{insertID: 42}
	repo := NewOrderRepository(store)

	order, err := repo.Create(context.Background(), "TC1234ABCD")
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.OrderID)
	assert.Equal(t, "TC1234ABCD", order.TrackCode)
	assert.Equal(t, string(models.StatusPending), order.Status)
	assert.Equal(t, time.Now().Format("2006-01-02"), order.DeliveryDate.Format("2006-01-02"))

	require.Len(t, store.insertCalls, 1)
	assert.Equal(t, []any{"TC1234ABCD", "Pending", time.Now().Format("2006-01-02")}, store.insertCalls[0].args)
}

func TestCreateOrderDuplicateTrackCode(t *testing.T) {
	store := &fakeStore{insertErr: &pgconn.PgError{Code: "23505"}}
	repo := NewOrderRepository(store)

	_, err := repo.Create(context.Background(), "TC1234ABCD")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetByTrackCodeNotFound(t *testing.T) {
	store := &fakeStore{rowScanErr: storage.ErrNoRows}
	repo := NewOrderRepository(store)

	_, err := repo.GetByTrackCode(context.Background(), "TCDEADBEEF")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByTrackCode(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		rowVals: []any{int64(5), "TC1234ABCD", "Shipped", created, created},
	}
	repo := NewOrderRepository(store)

	order, err := repo.GetByTrackCode(context.Background(), "TC1234ABCD")
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.OrderID)
	assert.Equal(t, "Shipped", order.Status)

	require.Len(t, store.queryCalls, 1)
	assert.Equal(t, []any{"TC1234ABCD"}, store.queryCalls[0].args)
}

func TestGetLastEmpty(t *testing.T) {
	store := &fakeStore{rowScanErr: storage.ErrNoRows}
	repo := NewOrderRepository(store)

	_, err := repo.GetLast(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRejectsInvalidBeforeStore(t *testing.T) {
	store := &fakeStore{}
	repo := NewOrderRepository(store)

	err := repo.UpdateStatus(context.Background(), 1, models.Status("Cancelled"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.execCalls, "invalid status must not reach the store")
}

func TestUpdateStatus(t *testing.T) {
	store := &fakeStore{execAffected: 1}
	repo := NewOrderRepository(store)

	err := repo.UpdateStatus(context.Background(), 9, models.StatusDelivered)
	require.NoError(t, err)

	require.Len(t, store.execCalls, 1)
	assert.Equal(t, []any{"Delivered", int64(9)}, store.execCalls[0].args)
}

func TestUpdateStatusNotFound(t *testing.T) {
	store := &fakeStore{execAffected: 0}
	repo := NewOrderRepository(store)

	err := repo.UpdateStatus(context.Background(), 9, models.StatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDeliveryDateEmpty(t *testing.T) {
	store := &fakeStore{}
	repo := NewOrderRepository(store)

	err := repo.UpdateDeliveryDate(context.Background(), 1, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.execCalls)
}

func TestListRecent(t *testing.T) {
	now := time.Now()
	store := &fakeStore{rows: [][]any{
		{int64(3), "TC00000003", "Pending", now, now},
		{int64(2), "TC00000002", "Shipped", now, now},
	}}
	repo := NewOrderRepository(store)

	orders, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(3), orders[0].OrderID)
	assert.Equal(t, int64(2), orders[1].OrderID)

	require.Len(t, store.queryCalls, 1)
	assert.Equal(t, []any{10}, store.queryCalls[0].args)
}

func TestListRecentInvalidLimit(t *testing.T) {
	repo := NewOrderRepository(&fakeStore{})

	_, err := repo.ListRecent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOrderLines(t *testing.T) {
	store := &fakeStore{rows: [][]any{
		{"Кружка", "Керамическая кружка", 2, "file1.jpg"},
		{"Чайник", "Заварочный", 1, nil},
	}}
	repo := NewOrderRepository(store)

	lines, err := repo.GetOrderLines(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Кружка", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "file1.jpg", lines[0].ImageURL)
	assert.Equal(t, "", lines[1].ImageURL, "NULL image_url becomes empty ref")
}
