package config

import (
	"os"
	"strconv"
	"time"
)

type RateLimitConfig struct {
	Limit     int64
	Window    time.Duration
	KeyHeader string
}

func LoadRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:     int64(getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 10)),
		Window:    getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		KeyHeader: getEnv("RATE_LIMIT_KEY_HEADER", "X-Client-Id"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
