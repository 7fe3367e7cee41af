package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tutorship/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL          string        // Required: base URL of the programme REST API
	StorageFile         string        // Optional: SQLite file holding cookies and preferences (default: tutorship.db)
	RedisAddr           string        // Optional: Redis address for cross-process logout; empty keeps it in-process
	RedisPrefix         string        // Optional: key and channel prefix on Redis (default: tutorship:)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	RequestTimeout      time.Duration // Upstream request timeout, 0 for none (default: 0)

	LoginLimit    httpx.RateLimitConfig
	RegisterLimit httpx.RateLimitConfig
}

// LoadConfig reads the environment, after loading ENV_FILE (default .env)
// when it exists. Variables already set win over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(getEnvOrDefault("ENV_FILE", ".env"))

	cfg := Config{
		APIBaseURL:          os.Getenv("API_BASE_URL"),
		StorageFile:         getEnvOrDefault("STORAGE_FILE", "tutorship.db"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPrefix:         getEnvOrDefault("REDIS_PREFIX", "tutorship:"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		RequestTimeout:      getEnvDurationOrDefault("REQUEST_TIMEOUT", 0),
		LoginLimit:          httpx.ParseRateLimitFromEnv("LOGIN", httpx.LoginLimit),
		RegisterLimit:       httpx.ParseRateLimitFromEnv("REGISTER", httpx.RegisterLimit),
	}

	if cfg.APIBaseURL == "" {
		return cfg, errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cfg, fmt.Errorf("API_BASE_URL %q is not an absolute URL", cfg.APIBaseURL)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
