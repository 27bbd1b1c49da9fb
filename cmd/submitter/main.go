package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"registry-client/registry"
	"registry-client/registry/domain"
	"registry-client/registry/infra"
	"registry-client/registry/metrics"
)

func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

func main() {
	cfg, err := readConfig()
	if err != nil {
		setupLogger(log.InfoLevel)
		log.WithError(err).Fatal("config error")
	}
	setupLogger(cfg.logLevel)
	logger := log.WithField("component", "submitter")

	manifest, err := infra.LoadManifest(cfg.docsFile)
	if err != nil {
		logger.WithError(err).Fatal("load manifest")
	}

	stats := infra.MultiStatsStore{metrics.NewSubmitMetrics()}
	if cfg.rateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.rateStatsRedisAddr,
			Password: cfg.rateStatsRedisPassword,
			DB:       cfg.rateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			logger.WithError(err).Fatal("redis stats ping error")
		}

		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
		))
	}

	client, err := registry.New(registry.Options{
		BaseURL:         cfg.baseURL,
		Token:           cfg.token,
		Limit:           cfg.rateLimit,
		Interval:        cfg.rateInterval,
		RefillPolicy:    cfg.refillPolicy,
		MaxInFlight:     cfg.concurrencyMax,
		InFlightTimeout: cfg.concurrencyTimeout,
		HTTPTimeout:     cfg.httpTimeout,
		Stats:           stats,
		Logger:          log.WithField("component", "registry"),
	})
	if err != nil {
		logger.WithError(err).Fatal("build registry client")
	}
	defer func() { _ = client.Close() }()

	if err := metrics.RegisterLimiterGauges(prometheus.DefaultRegisterer, client.Limiter()); err != nil {
		logger.WithError(err).Fatal("register limiter gauges")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.metricsAddr != "" {
		startMetricsServer(ctx, cfg.metricsAddr, logger)
	}

	logger.WithFields(log.Fields{
		"base_url":  cfg.baseURL,
		"limit":     cfg.rateLimit,
		"interval":  cfg.rateInterval,
		"refill":    cfg.refillPolicy,
		"workers":   cfg.workers,
		"documents": len(manifest.Documents),
		"count":     cfg.submitCount,
	}).Info("submitter started")

	sent, err := run(ctx, client, manifest, cfg.workers, cfg.submitCount, logger)
	switch {
	case errors.Is(err, domain.ErrAuth):
		logger.WithError(err).Fatal("registry rejected the token; refresh REGISTRY_TOKEN")
	case err != nil && !errors.Is(err, context.Canceled):
		logger.WithError(err).Fatal("submitter stopped with error")
	}
	logger.WithField("submitted", sent).Info("submitter stopped")
}

type submitter interface {
	SubmitDocument(ctx context.Context, doc domain.Document, signature string) (domain.SubmissionResult, error)
}

// run distribui os documentos do manifesto entre os workers, em ciclo.
// count == 0 envia até o ctx encerrar. Um 401 encerra todos os workers; os
// demais erros são só logados e o próximo documento segue.
func run(ctx context.Context, c submitter, m infra.Manifest, workers, count int, logger *log.Entry) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	var next, sent atomic.Int64

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				n := next.Add(1) - 1
				if count > 0 && n >= int64(count) {
					return nil
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}

				doc := m.Documents[n%int64(len(m.Documents))]
				res, err := c.SubmitDocument(gctx, doc, m.Signature)
				switch {
				case errors.Is(err, domain.ErrAuth):
					return err
				case errors.Is(err, domain.ErrLimiterClosed):
					return err
				case errors.Is(err, domain.ErrCancelledWait) && gctx.Err() != nil:
					return gctx.Err()
				case err != nil:
					logger.WithError(err).WithField("n", n).Warn("submission failed")
					continue
				}
				sent.Add(1)
				logger.WithFields(log.Fields{
					"n":     n,
					"group": doc.Group,
					"code":  res.Code,
					"value": res.Value,
				}).Info("submission result")
			}
		})
	}

	err := g.Wait()
	return sent.Load(), err
}

func startMetricsServer(ctx context.Context, addr string, logger *log.Entry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv
}
