package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Generative-text provider
	GeminiAPIKey string
	GeminiModel  string

	// Talking-avatar provider
	HeyGenAPIKey   string
	HeyGenAvatarID string
	HeyGenVoiceID  string

	// Session storage
	StoreBackend string
	RedisURL     string

	// Session lifecycle
	SessionTTL    time.Duration // inactivity threshold before expiry
	SweepInterval time.Duration // how often the expiry sweep runs

	// Interaction handling
	HistoryLimit  int           // transcript window passed to the LLM
	LLMTimeout    time.Duration // single-attempt deadline per generative call
	AvatarTimeout time.Duration // single-attempt deadline per avatar call
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		HeyGenAPIKey:   os.Getenv("HEYGEN_API_KEY"),
		HeyGenAvatarID: getEnv("HEYGEN_AVATAR_ID", "Dexter_Lawyer_Sitting_public"),
		HeyGenVoiceID:  os.Getenv("HEYGEN_VOICE_ID"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
	}

	if cfg.StoreBackend != StoreBackendMemory && cfg.StoreBackend != StoreBackendRedis {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: must be %q or %q",
			cfg.StoreBackend, StoreBackendMemory, StoreBackendRedis)
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AvatarTimeout, err = getDuration("AVATAR_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = getInt("HISTORY_LIMIT", 20); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
