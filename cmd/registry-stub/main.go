package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"registry-client/registry/stub"
)

// Registro falso para testar o cmd/submitter localmente:
//
//	STUB_TOKEN=tok go run ./cmd/registry-stub
//	REGISTRY_BASE_URL=http://localhost:8081/api/v3 REGISTRY_TOKEN=tok DOCS_FILE=docs.yaml go run ./cmd/submitter
func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "registry-stub")

	addr := getenvDefault("LISTEN_ADDR", ":8081")
	token := os.Getenv("STUB_TOKEN")
	if token == "" {
		logger.Fatal("STUB_TOKEN is required")
	}
	rps := getenvFloatDefault("STUB_RPS", 1)
	burst := getenvIntDefault("STUB_BURST", 3)

	store := stub.NewQuotaStore(rps, burst)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartSweeper(ctx)

	h := http.Handler(stub.NewHandler(token).Routes("/api/v3"))
	h = stub.Throttle(stub.ThrottleOptions{
		Store:               store,
		AddRateLimitHeaders: true,
	})(h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(log.Fields{"addr": addr, "rps": rps, "burst": burst}).Info("registry stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server error")
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	i, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}
