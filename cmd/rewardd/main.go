// Command rewardd runs the Dozer reward-claim verification and pool-snapshot
// service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dozer-finance/reward-service/internal/backend"
	"github.com/dozer-finance/reward-service/internal/config"
	"github.com/dozer-finance/reward-service/internal/httpapi"
	"github.com/dozer-finance/reward-service/internal/logging"
	"github.com/dozer-finance/reward-service/internal/metrics"
	"github.com/dozer-finance/reward-service/internal/quests"
	"github.com/dozer-finance/reward-service/internal/snapshots"
	"github.com/dozer-finance/reward-service/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault("rewardd").WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, "rewardd", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.Open(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		logger.WithError(err).Error("failed to open database")
		os.Exit(1)
	}
	defer store.Close()

	if err := postgres.Migrate(store.DB()); err != nil {
		logger.WithError(err).Error("failed to run migrations")
		os.Exit(1)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
	})
	if err != nil {
		logger.WithError(err).Error("failed to build backend client")
		os.Exit(1)
	}

	rules := quests.DefaultRules()
	if cfg.QuestsConfig != "" {
		rules, err = quests.LoadRules(cfg.QuestsConfig)
		if err != nil {
			logger.WithError(err).Error("failed to load quest overrides")
			os.Exit(1)
		}
	}

	m := metrics.New("reward-service")
	questSvc := quests.New(rules, client, store, logger.WithField("component", "quests"))
	snapSvc := snapshots.New(client, store, logger.WithField("component", "snapshots"), m, cfg.SnapshotJitter)

	server := httpapi.NewServer(httpapi.Config{
		Quests:         questSvc,
		Snapshots:      snapSvc,
		APIKey:         cfg.APIKey,
		CronKey:        cfg.CronKey,
		Logger:         logger,
		Metrics:        m,
		RateLimit:      cfg.RateLimitPerSecond,
		RateBurst:      cfg.RateLimitBurst,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	var scheduler *snapshots.Scheduler
	if cfg.SnapshotScheduleHourly != "" || cfg.SnapshotScheduleDaily != "" {
		scheduler = snapshots.NewScheduler(snapSvc, cfg.SnapshotScheduleHourly, cfg.SnapshotScheduleDaily, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.WithError(err).Error("failed to start snapshot scheduler")
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("reward service listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("http server failed")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.WithError(err).Warn("snapshot scheduler did not stop cleanly")
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http server shutdown failed")
		os.Exit(1)
	}

	logger.Info("reward service stopped")
}
