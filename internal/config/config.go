package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the honeypot service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	// APIKey is the shared secret gating POST /api/honeypot.
	APIKey string

	TurnThreshold      int
	ReplyStrategy      string
	ScamPolicy         string
	ScamScoreThreshold int
	SessionIdleTimeout time.Duration

	GenerationMode     string
	GeminiAPIKeys      []string
	GeminiModel        string
	GenerationDeadline time.Duration

	ReportURL     string
	ReportTimeout time.Duration

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("HONEYGRID_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("HONEYGRID_METRICS_NAMESPACE", "honeygrid"),
		APIKey:           trimmedEnv("HONEYGRID_API_KEY"),
		ReplyStrategy:    envOrDefault("HONEYGRID_REPLY_STRATEGY", "persona"),
		ScamPolicy:       envOrDefault("HONEYGRID_SCAM_POLICY", "lexical"),
		GenerationMode:   envOrDefault("GENERATION_MODE", "auto"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		ReportURL:        trimmedEnv("REPORT_URL"),
		DatabaseURL:      trimmedEnv("DATABASE_URL"),

		TurnThreshold:      10,
		ScamScoreThreshold: 6,
		// 0 disables idle eviction; sessions then live until shutdown.
		SessionIdleTimeout: 0,
		GenerationDeadline: 6 * time.Second,
		ReportTimeout:      5 * time.Second,
		ShutdownTimeout:    15 * time.Second,
		AllowAnyOrigin:     false,
	}

	if keys := trimmedEnv("GEMINI_API_KEYS"); keys != "" {
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, k)
			}
		}
	}
	// Single-key deployments often set the upstream SDK variable instead.
	if len(cfg.GeminiAPIKeys) == 0 {
		if k := trimmedEnv("GEMINI_API_KEY"); k != "" {
			cfg.GeminiAPIKeys = []string{k}
		}
	}

	var err error
	cfg.TurnThreshold, err = intFromEnv("HONEYGRID_TURN_THRESHOLD", cfg.TurnThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.ScamScoreThreshold, err = intFromEnv("HONEYGRID_SCAM_THRESHOLD", cfg.ScamScoreThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdleTimeout, err = durationFromEnv("HONEYGRID_SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.GenerationDeadline, err = durationFromEnv("GENERATION_DEADLINE", cfg.GenerationDeadline)
	if err != nil {
		return Config{}, err
	}
	cfg.ReportTimeout, err = durationFromEnv("REPORT_TIMEOUT", cfg.ReportTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("HONEYGRID_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("HONEYGRID_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("HONEYGRID_API_KEY is required")
	}
	if cfg.TurnThreshold < 1 {
		return Config{}, fmt.Errorf("HONEYGRID_TURN_THRESHOLD must be positive")
	}
	if cfg.ScamScoreThreshold < 1 {
		return Config{}, fmt.Errorf("HONEYGRID_SCAM_THRESHOLD must be positive")
	}
	switch cfg.ReplyStrategy {
	case "persona", "scripted":
	default:
		return Config{}, fmt.Errorf("HONEYGRID_REPLY_STRATEGY must be persona or scripted, got %q", cfg.ReplyStrategy)
	}
	switch cfg.ScamPolicy {
	case "lexical", "weighted":
	default:
		return Config{}, fmt.Errorf("HONEYGRID_SCAM_POLICY must be lexical or weighted, got %q", cfg.ScamPolicy)
	}
	if cfg.GenerationDeadline < time.Second || cfg.GenerationDeadline > 30*time.Second {
		return Config{}, fmt.Errorf("GENERATION_DEADLINE must be between 1s and 30s")
	}
	if cfg.SessionIdleTimeout != 0 && cfg.SessionIdleTimeout < 30*time.Second {
		return Config{}, fmt.Errorf("HONEYGRID_SESSION_IDLE_TIMEOUT must be 0 or at least 30s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
