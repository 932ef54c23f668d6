package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	// StorageDriver selects the key-value backend: memory, file or
	// postgres.
	StorageDriver string
	DataDir       string
	DatabaseURL   string

	// PollInterval is the change-feed tick; views lag the true state
	// by at most this much.
	PollInterval time.Duration

	// IngredientYield is the per-batch divisor used when scaling
	// recipe quantities into per-order consumption.
	IngredientYield float64

	RabbitMQURL        string
	CorsAllowedOrigins []string
}

func Load() Config {
	return Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8087"),
		StorageDriver:      getEnv("STORAGE_DRIVER", "file"),
		DataDir:            getEnv("DATA_DIR", "./data"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		PollInterval:       getEnvDuration("POLL_INTERVAL", 3*time.Second),
		IngredientYield:    getEnvFloat64("INGREDIENT_YIELD", 10),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvFloat64(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
