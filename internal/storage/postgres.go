package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgMaxConns       = 10
	pgConnectTimeout = 5 * time.Second
)

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		track_code VARCHAR(50) UNIQUE NOT NULL,
		status VARCHAR(20) DEFAULT 'Pending',
		delivery_date DATE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		image_url VARCHAR(500),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		item_id SERIAL PRIMARY KEY,
		order_id INTEGER REFERENCES orders(order_id) ON DELETE CASCADE,
		product_id INTEGER REFERENCES products(product_id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_track_code ON orders(track_code)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)`,
}

type postgresStore struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, cfg Config) (*postgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres url: %w", err)
	}

	poolCfg.MaxConns = pgMaxConns
	poolCfg.ConnConfig.ConnectTimeout = pgConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *postgresStore) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rows: rows}, nil
}

func (s *postgresStore) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{row: s.pool.QueryRow(ctx, rebind(query), args...)}
}

func (s *postgresStore) Insert(ctx context.Context, query string, idColumn string, args ...any) (int64, error) {
	var id int64
	sql := rebind(query) + " RETURNING " + idColumn
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range pgSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

func (s *postgresStore) Close() {
	s.pool.Close()
}

type pgRows struct {
	rows pgx.Rows
}

func (r pgRows) Next() bool             { return r.rows.Next() }
func (r pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgRows) Err() error             { return r.rows.Err() }
func (r pgRows) Close()                 { r.rows.Close() }

type pgRow struct {
	row pgx.Row
}

func (r pgRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func classifyPostgres(err error) (Kind, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindOther, false
	}
	switch pgErr.Code {
	case "23505":
		return KindDuplicate, true
	case "28000", "28P01":
		return KindAuthDenied, true
	case "57P01", "57P02", "57P03", "08006", "08001":
		return KindUnavailable, true
	}
	return KindOther, true
}
