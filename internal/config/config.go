package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPgx = "pgx"
	DriverPq  = "pq"
)

type Config struct {
	Addr        string
	DatabaseURL string
	DBDriver    string

	// Allowed origin for browser clients served from elsewhere.
	CORSOrigin string

	LogLevel  string
	LogFormat string
	GinMode   string
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        getenv("APP_ADDR", ":8080"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverPgx)),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),
		GinMode:     getenv("GIN_MODE", "release"),
	}

	// PORT is what most hosting platforms inject.
	if port := getenv("PORT", ""); port != "" && os.Getenv("APP_ADDR") == "" {
		cfg.Addr = ":" + port
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	switch cfg.DBDriver {
	case DriverPgx, DriverPq:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", cfg.DBDriver, DriverPgx, DriverPq)
	}
	return cfg, nil
}
