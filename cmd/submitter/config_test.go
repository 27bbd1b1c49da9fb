package main

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"registry-client/registry/application"
	"registry-client/registry/domain"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("REGISTRY_TOKEN", "tok")
	t.Setenv("DOCS_FILE", "docs.yaml")
}

func TestReadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := readConfig()
	require.NoError(t, err)
	require.Equal(t, application.DefaultBaseURL, cfg.baseURL)
	require.Equal(t, 3, cfg.rateLimit)
	require.Equal(t, time.Minute, cfg.rateInterval)
	require.Equal(t, domain.RefillTopUp, cfg.refillPolicy)
	require.Equal(t, 0, cfg.concurrencyMax)
	require.Equal(t, 30*time.Second, cfg.httpTimeout)
	require.Equal(t, 4, cfg.workers)
	require.Equal(t, 0, cfg.submitCount)
	require.Equal(t, ":9090", cfg.metricsAddr)
	require.Equal(t, log.InfoLevel, cfg.logLevel)
	require.False(t, cfg.rateStatsEnabled)
}

func TestReadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REGISTRY_BASE_URL", "http://localhost:8081/api/v3")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_INTERVAL", "30s")
	t.Setenv("REFILL_POLICY", "Blanket")
	t.Setenv("CONCURRENCY_MAX", "2")
	t.Setenv("WORKERS", "8")
	t.Setenv("SUBMIT_COUNT", "100")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := readConfig()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8081/api/v3", cfg.baseURL)
	require.Equal(t, 10, cfg.rateLimit)
	require.Equal(t, 30*time.Second, cfg.rateInterval)
	require.Equal(t, domain.RefillBlanket, cfg.refillPolicy)
	require.Equal(t, 2, cfg.concurrencyMax)
	require.Equal(t, 8, cfg.workers)
	require.Equal(t, 100, cfg.submitCount)
	require.Empty(t, cfg.metricsAddr)
	require.Equal(t, log.DebugLevel, cfg.logLevel)
}

func TestReadConfig_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":        {"REGISTRY_TOKEN": ""},
		"missing docs":         {"DOCS_FILE": ""},
		"zero limit":           {"RATE_LIMIT": "0"},
		"negative interval":    {"RATE_INTERVAL": "-1s"},
		"bad refill":           {"REFILL_POLICY": "sliding"},
		"zero workers":         {"WORKERS": "0"},
		"negative count":       {"SUBMIT_COUNT": "-1"},
		"negative concurrency": {"CONCURRENCY_MAX": "-1"},
		"bad log level":        {"LOG_LEVEL": "loud"},
		"stats without redis":  {"RATE_STATS_ENABLED": "true"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := readConfig()
			require.Error(t, err)
		})
	}
}
