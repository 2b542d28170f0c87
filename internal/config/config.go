package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Origin scraper service settings
	OriginBaseURL        string
	OriginTimeout        time.Duration
	OriginRetryMax       int
	OriginRetryBaseDelay time.Duration

	// Post-trigger poll settings (district court family)
	PollInterval time.Duration
	PollTimeout  time.Duration

	// API settings
	MaxBulkQueries int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/case_tracker.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		OriginBaseURL: getEnv("ORIGIN_BASE_URL", "http://localhost:9000"),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	originTimeout, err := strconv.Atoi(getEnv("ORIGIN_TIMEOUT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORIGIN_TIMEOUT: %w", err)
	}
	cfg.OriginTimeout = time.Duration(originTimeout) * time.Second

	cfg.OriginRetryMax, err = strconv.Atoi(getEnv("ORIGIN_RETRY_MAX", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORIGIN_RETRY_MAX: %w", err)
	}

	retryBaseDelay, err := strconv.Atoi(getEnv("ORIGIN_RETRY_BASE_DELAY_MS", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORIGIN_RETRY_BASE_DELAY_MS: %w", err)
	}
	cfg.OriginRetryBaseDelay = time.Duration(retryBaseDelay) * time.Millisecond

	pollInterval, err := strconv.Atoi(getEnv("POLL_INTERVAL", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	cfg.PollInterval = time.Duration(pollInterval) * time.Second

	pollTimeout, err := strconv.Atoi(getEnv("POLL_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_TIMEOUT: %w", err)
	}
	cfg.PollTimeout = time.Duration(pollTimeout) * time.Second

	cfg.MaxBulkQueries, err = strconv.Atoi(getEnv("MAX_BULK_QUERIES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BULK_QUERIES: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
