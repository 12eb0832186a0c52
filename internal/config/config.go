package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	Env             string
	DB              DBConfig
	FrontendOrigin  string
	ShutdownTimeout time.Duration
}

// DBConfig mirrors the DB_* environment variables. Driver is validated by
// db.Connect; only postgres is supported.
type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Driver   string
}

// DSN builds the connection string for pgx.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr: envOrDefault("HTTP_ADDR", ":8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			Name:     envOrDefault("DB_NAME", "storefront"),
			User:     envOrDefault("DB_USER", "storefront"),
			Password: envOrDefault("DB_PASS", "storefront"),
			Driver:   envOrDefault("DB_DRIVER", "postgres"),
		},
		FrontendOrigin:  envOrDefault("FRONT_END_URL", "http://localhost:5173"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
