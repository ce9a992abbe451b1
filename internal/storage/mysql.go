package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	myMaxConns    = 10
	myConnTimeout = 10 * time.Second
)

var mySchema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_id INT AUTO_INCREMENT PRIMARY KEY,
		track_code VARCHAR(50) UNIQUE NOT NULL,
		status ENUM('Pending', 'Shipped', 'Delivered') NOT NULL DEFAULT 'Pending',
		delivery_date DATE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		image_url VARCHAR(500),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		item_id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		INDEX idx_order_items_order_id (order_id),
		INDEX idx_order_items_product_id (product_id),
		FOREIGN KEY (order_id) REFERENCES orders(order_id) ON DELETE CASCADE,
		FOREIGN KEY (product_id) REFERENCES products(product_id) ON DELETE CASCADE
	)`,
}

type mysqlStore struct {
	db *sql.DB
}

func openMySQL(cfg Config) (*mysqlStore, error) {
	mycfg := mysql.NewConfig()
	mycfg.Net = "tcp"
	mycfg.Addr = cfg.Host + ":" + cfg.Port
	mycfg.User = cfg.User
	mycfg.Passwd = cfg.Password
	mycfg.DBName = cfg.Name
	mycfg.ParseTime = true
	mycfg.Timeout = myConnTimeout
	mycfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", mycfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	db.SetMaxOpenConns(myMaxConns)
	db.SetMaxIdleConns(myMaxConns)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &mysqlStore{db: db}, nil
}

func (s *mysqlStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *mysqlStore) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: rows}, nil
}

func (s *mysqlStore) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: s.db.QueryRowContext(ctx, query, args...)}
}

func (s *mysqlStore) Insert(ctx context.Context, query string, idColumn string, args ...any) (int64, error) {
	_ = idColumn // mysql отдаёт идентификатор через LAST_INSERT_ID
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *mysqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *mysqlStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range mySchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

func (s *mysqlStore) Close() {
	_ = s.db.Close()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Close()                 { _ = r.rows.Close() }

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func classifyMySQL(err error) (Kind, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return KindOther, false
	}
	switch myErr.Number {
	case 1062:
		return KindDuplicate, true
	case 1044, 1045:
		return KindAuthDenied, true
	case 1040, 1053, 2002, 2003, 2006, 2013:
		return KindUnavailable, true
	}
	return KindOther, true
}
