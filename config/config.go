package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresConn  string
	ServerAddress string
	LogLevel      string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PostgresConn:  os.Getenv("POSTGRES_CONN"),
		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	if cfg.PostgresConn == "" {
		return nil, errors.New("POSTGRES_CONN env variable is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
