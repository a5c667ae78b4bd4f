// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	HTTPPort           string
	ProductsSource     string
	ExclusiveSource    string
	RedisAddr          string
	RedisPassword      string
	SessionTTL         time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
	FeaturedCount      int
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// Load reads the environment. Outside production a .env file in the working
// directory is loaded first; a missing file is not an error.
func Load() (*Config, error) {
	env := getEnv("ENV", "development")
	if env != "production" {
		_ = godotenv.Load(getEnv("ENV_FILE", ".env"))
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		HTTPPort:           strings.TrimPrefix(getEnv("HTTP_PORT", "8080"), ":"),
		ProductsSource:     getEnv("PRODUCTS_SOURCE", "./data/products.json"),
		ExclusiveSource:    getEnv("EXCLUSIVE_SOURCE", "./data/exclusive.json"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "storefront-orders"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FeaturedCount, err = getInt("FEATURED_COUNT", 6); err != nil {
		return nil, err
	}
	if cfg.FeaturedCount < 0 {
		return nil, fmt.Errorf("FEATURED_COUNT must not be negative, got %d", cfg.FeaturedCount)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
