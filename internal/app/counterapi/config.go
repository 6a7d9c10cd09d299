package counterapi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
)

// Config carries environment-driven settings for the counter backend.
type Config struct {
	Port         string
	PostgresDSN  string
	SeedDemo     bool
	LogLevel     slog.Level
	LogFormat    string
	Exporter     platformobservability.Exporter
	OTLPEndpoint string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:         envDefault("PORT", "5000"),
		PostgresDSN:  strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedDemo:     isTruthy(os.Getenv("COUNTER_SEED_DEMO")),
		LogFormat:    envDefault("LOG_FORMAT", "json"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	level, err := platformobservability.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	exporter, err := platformobservability.ParseExporter(os.Getenv("OTEL_EXPORTER"))
	if err != nil {
		return Config{}, err
	}
	cfg.Exporter = exporter
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
