// Package ratelimit guards expensive parse operations with per-principal
// windowed counters. Counters live behind a Store so they can be backed by
// Postgres and shared across instances instead of dying with the process.
package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	Limit   int           // max parse requests per window per principal
	Window  time.Duration // counting window
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		Limit:   getEnvInt("RATE_LIMIT_LIMIT", 30),
		Window:  getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
