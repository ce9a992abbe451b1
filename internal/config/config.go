package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"track-bot/internal/storage"
)

type Config struct {
	BotToken   string
	AdminID    int64
	UploadsDir string
	Store      storage.Config
}

// Load читает конфигурацию из окружения, .env подхватывается если есть.
// Отсутствие любого обязательного значения это ошибка запуска, частично
// сконфигурированного старта не бывает.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	adminRaw := os.Getenv("ADMIN_ID")
	if adminRaw == "" {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}
	adminID, err := strconv.ParseInt(adminRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID must be a numeric telegram id: %w", err)
	}

	store, err := loadStore()
	if err != nil {
		return nil, err
	}

	return &Config{
		BotToken:   token,
		AdminID:    adminID,
		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		Store:      store,
	}, nil
}

func loadStore() (storage.Config, error) {
	backend := getEnv("DB_TYPE", storage.BackendPostgres)

	switch backend {
	case storage.BackendPostgres:
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			return storage.Config{}, fmt.Errorf("DATABASE_URL is required for postgresql")
		}
		return storage.Config{Backend: backend, DatabaseURL: url}, nil

	case storage.BackendMySQL:
		cfg := storage.Config{
			Backend:  backend,
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Name:     os.Getenv("DB_NAME"),
		}
		if cfg.Host == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
			return storage.Config{}, fmt.Errorf("mysql requires DB_HOST, DB_USER, DB_PASS and DB_NAME")
		}
		return cfg, nil

	default:
		return storage.Config{}, fmt.Errorf("invalid DB_TYPE %q: use postgresql or mysql", backend)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
