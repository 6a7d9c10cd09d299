package panel

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"COUNTER_API_URL", "PANEL_POLL_INTERVAL", "PANEL_POLL_ONLY_ORDERS_TAB",
		"PANEL_AVAILABILITY_WRITE_THROUGH", "PANEL_HTTP_TIMEOUT", "LOG_LEVEL",
		"LOG_FORMAT", "LOG_FILE", "OTEL_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.PollOnlyOrdersTab)
	assert.False(t, cfg.AvailabilityWriteThrough)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, platformobservability.ExporterNone, cfg.Exporter)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COUNTER_API_URL", "http://counter.local:8080/")
	t.Setenv("PANEL_POLL_INTERVAL", "2s")
	t.Setenv("PANEL_POLL_ONLY_ORDERS_TAB", "true")
	t.Setenv("PANEL_AVAILABILITY_WRITE_THROUGH", "1")
	t.Setenv("PANEL_HTTP_TIMEOUT", "750ms")
	t.Setenv("OTEL_EXPORTER", "stdout")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://counter.local:8080", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTPTimeout)
	assert.True(t, cfg.PollOnlyOrdersTab)
	assert.True(t, cfg.AvailabilityWriteThrough)
	assert.Equal(t, platformobservability.ExporterStdout, cfg.Exporter)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string][2]string{
		"relative url":     {"COUNTER_API_URL", "counter.local"},
		"zero interval":    {"PANEL_POLL_INTERVAL", "0s"},
		"garbage interval": {"PANEL_POLL_INTERVAL", "soon"},
		"negative timeout": {"PANEL_HTTP_TIMEOUT", "-1s"},
		"unknown format":   {"LOG_FORMAT", "xml"},
		"unknown exporter": {"OTEL_EXPORTER", "zipkin"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc[0], tc[1])
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
