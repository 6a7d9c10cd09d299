package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/counter-panel/internal/polling"
	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
)

// Config carries environment-driven settings for the staff panel.
type Config struct {
	APIURL                   string
	PollInterval             time.Duration
	PollOnlyOrdersTab        bool
	AvailabilityWriteThrough bool
	HTTPTimeout              time.Duration
	LogLevel                 slog.Level
	LogFormat                string
	LogFile                  string
	Exporter                 platformobservability.Exporter
	OTLPEndpoint             string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		APIURL:                   strings.TrimRight(envDefault("COUNTER_API_URL", "http://localhost:5000"), "/"),
		PollOnlyOrdersTab:        isTruthy(os.Getenv("PANEL_POLL_ONLY_ORDERS_TAB")),
		AvailabilityWriteThrough: isTruthy(os.Getenv("PANEL_AVAILABILITY_WRITE_THROUGH")),
		LogFormat:                envDefault("LOG_FORMAT", "text"),
		LogFile:                  strings.TrimSpace(os.Getenv("LOG_FILE")),
		OTLPEndpoint:             strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}
	if parsed, err := url.Parse(cfg.APIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("COUNTER_API_URL must be an absolute URL, got %q", cfg.APIURL)
	}
	interval, err := positiveDuration("PANEL_POLL_INTERVAL", polling.DefaultInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.PollInterval = interval
	timeout, err := positiveDuration("PANEL_HTTP_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTPTimeout = timeout
	level, err := platformobservability.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	exporter, err := platformobservability.ParseExporter(envDefault("OTEL_EXPORTER", string(platformobservability.ExporterNone)))
	if err != nil {
		return Config{}, err
	}
	cfg.Exporter = exporter
	return cfg, nil
}

func positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
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
