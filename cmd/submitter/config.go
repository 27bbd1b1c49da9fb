package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"registry-client/registry/application"
	"registry-client/registry/domain"
)

type config struct {
	baseURL      string
	token        string
	rateLimit    int
	rateInterval time.Duration
	refillPolicy domain.RefillPolicy

	concurrencyMax     int
	concurrencyTimeout time.Duration
	httpTimeout        time.Duration

	workers     int
	docsFile    string
	submitCount int
	metricsAddr string
	logLevel    log.Level

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.baseURL = getenvDefault("REGISTRY_BASE_URL", application.DefaultBaseURL)
	cfg.token = os.Getenv("REGISTRY_TOKEN")
	cfg.rateLimit = getenvIntDefault("RATE_LIMIT", 3)
	cfg.rateInterval = getenvDurationDefault("RATE_INTERVAL", time.Minute)
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 0)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)
	cfg.httpTimeout = getenvDurationDefault("HTTP_TIMEOUT", 30*time.Second)
	cfg.workers = getenvIntDefault("WORKERS", 4)
	cfg.docsFile = os.Getenv("DOCS_FILE")
	cfg.submitCount = getenvIntDefault("SUBMIT_COUNT", 0)
	// METRICS_ADDR="" desliga o /metrics; ausente usa :9090.
	cfg.metricsAddr = ":9090"
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.metricsAddr = v
	}

	switch p := strings.ToLower(getenvDefault("REFILL_POLICY", "topup")); p {
	case "topup":
		cfg.refillPolicy = domain.RefillTopUp
	case "blanket":
		cfg.refillPolicy = domain.RefillBlanket
	default:
		return config{}, fmt.Errorf("REFILL_POLICY must be topup or blanket, got %q", p)
	}

	level, err := log.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.logLevel = level

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "registry:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")

	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if strings.TrimSpace(cfg.token) == "" {
		return config{}, errors.New("REGISTRY_TOKEN is required")
	}
	if cfg.docsFile == "" {
		return config{}, errors.New("DOCS_FILE is required")
	}
	if cfg.rateLimit <= 0 {
		return config{}, errors.New("RATE_LIMIT must be > 0")
	}
	if cfg.rateInterval <= 0 {
		return config{}, errors.New("RATE_INTERVAL must be > 0")
	}
	if cfg.workers <= 0 {
		return config{}, errors.New("WORKERS must be > 0")
	}
	if cfg.submitCount < 0 {
		return config{}, errors.New("SUBMIT_COUNT must be >= 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
