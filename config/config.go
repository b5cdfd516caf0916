package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value of key after loading .env once.
func Config(key string) string {
	loadOnce.Do(func() {
		// .env is optional; the process environment wins when both are set
		_ = godotenv.Load(".env")
	})
	return os.Getenv(key)
}

type Settings struct {
	Port               string        `validate:"required,numeric"`
	Env                string        `validate:"required,oneof=development production test"`
	BackendURL         string        `validate:"required,url"`
	HTTPTimeout        time.Duration `validate:"gt=0"`
	AllowOrigins       string
	StorageDriver      string `validate:"required,oneof=memory redis postgres"`
	RedisAddr          string `validate:"required_if=StorageDriver redis"`
	Database           DatabaseSettings
	EnrichMaxParallel  int           `validate:"gte=0"`
	SessionIdleTimeout time.Duration `validate:"gt=0"`
	DiscountResetCron  string
}

type DatabaseSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", d.Host, d.Port, d.User, d.Password, d.Name)
}

func Load() (*Settings, error) {
	s := &Settings{
		Port:          withDefault("PORT", "8002"),
		Env:           withDefault("ENV", "development"),
		BackendURL:    strings.TrimRight(withDefault("BACKEND_URL", "http://localhost:5000"), "/"),
		HTTPTimeout:   durationOf("HTTP_TIMEOUT", 10*time.Second),
		AllowOrigins:  withDefault("ALLOW_ORIGINS", "http://localhost:5173"),
		StorageDriver: withDefault("STORAGE_DRIVER", "memory"),
		RedisAddr:     Config("REDIS_ADDR"),
		Database: DatabaseSettings{
			Host:     withDefault("DB_HOST", "localhost"),
			Port:     intOf("DB_PORT", 5432),
			User:     withDefault("DB_USER", "postgres"),
			Password: Config("DB_PASSWORD"),
			Name:     withDefault("DB_NAME", "storefront"),
		},
		EnrichMaxParallel:  intOf("ENRICH_MAX_PARALLEL", 0),
		SessionIdleTimeout: durationOf("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		DiscountResetCron:  Config("DISCOUNT_CACHE_RESET_CRON"),
	}

	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func withDefault(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func intOf(key string, fallback int) int {
	if v := Config(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// durationOf accepts Go durations ("15s") or plain seconds ("15").
func durationOf(key string, fallback time.Duration) time.Duration {
	v := Config(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
