package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrNoRows нормализованное "строк нет" для обоих бэкендов.
var ErrNoRows = errors.New("storage: no rows in result set")

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Store единый параметризованный интерфейс поверх реляционного бэкенда.
// Запросы пишутся с плейсхолдерами `?`; бэкенд сам приводит их к своему
// синтаксису. Insert возвращает идентификатор вставленной строки независимо
// от того, умеет ли движок RETURNING.
type Store interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Insert(ctx context.Context, query string, idColumn string, args ...any) (int64, error)
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	Close()
}

const (
	BackendPostgres = "postgresql"
	BackendMySQL    = "mysql"
)

type Config struct {
	Backend string

	// postgresql
	DatabaseURL string

	// mysql
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendPostgres:
		return openPostgres(ctx, cfg)
	case BackendMySQL:
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database backend %q", cfg.Backend)
	}
}

// rebind переписывает `?` в позиционные `$n` для postgres. Литеральных
// вопросительных знаков в наших запросах нет.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Kind грубая классификация ошибок драйвера. Используется только для выбора
// обобщённого сообщения пользователю, сырой текст ошибки наружу не уходит.
type Kind int

const (
	KindOther Kind = iota
	KindAuthDenied
	KindUnavailable
	KindDuplicate
)

func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if kind, ok := classifyPostgres(err); ok {
		return kind
	}
	if kind, ok := classifyMySQL(err); ok {
		return kind
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	return KindOther
}
