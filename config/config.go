package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application-level configuration
type Config struct {
	// Catalog / user service
	APIBase          string
	UserID           string
	RequestTimeoutMs int
	MaxRetries       int
	RateLimitDelay   int // milliseconds between requests

	// Response cache
	RedisURL        string
	CacheTTLSeconds int

	// Snapshot
	DatabaseURL      string
	SnapshotSchedule string // cron spec, empty means run once

	// Output
	CSVFilePath string
	LogLevel    string
}

// Load reads configuration from .env, environment variables, or falls back to defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return &Config{
		APIBase:          strings.TrimRight(getEnv("API_BASE", "http://localhost:3001/api"), "/"),
		UserID:           getEnv("USER_ID", "cmlew0i3z000014oao6mkmk7m"),
		RequestTimeoutMs: getEnvInt("REQUEST_TIMEOUT_MS", 10000),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		RateLimitDelay:   getEnvInt("RATE_LIMIT_DELAY_MS", 0),
		RedisURL:         getEnv("REDIS_URL", ""),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 300),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", ""),
		CSVFilePath:      getEnv("CSV_FILE_PATH", "output/resorts.csv"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
