package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "studio-campaigns/internal/adapter/http"
	"studio-campaigns/internal/adapter/mailer"
	"studio-campaigns/internal/adapter/postgres"
	"studio-campaigns/internal/adapter/sqlite"
	"studio-campaigns/internal/adapter/template"
	"studio-campaigns/internal/adapter/usecase"
	"studio-campaigns/internal/adapter/worker"
	"studio-campaigns/internal/config"
	"studio-campaigns/internal/config/configs"
	"studio-campaigns/internal/core/port"
	"studio-campaigns/internal/db"
	"studio-campaigns/internal/task"
)

// main loads configuration, opens the configured store, then runs the admin
// API next to the dispatch and retry loops until a termination signal
// arrives.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, resolver, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store initialisation error", slog.Any("error", err))
		return
	}
	defer closeStore()

	sender, err := newMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("mailer initialisation error", slog.Any("error", err))
		return
	}
	renderer := template.NewRenderer(os.DirFS(cfg.Templates.Dir))
	svc := usecase.NewCampaignUseCase(store, resolver, logger, cfg.Retry.DefaultMaxRetries)

	dispatcher := worker.NewDispatcher(
		store,
		renderer,
		sender,
		svc,
		worker.NewThrottle(cfg.Dispatch.RatePerMinute, cfg.Dispatch.Burst, cfg.Dispatch.DailyCap),
		worker.DispatchConfig{
			BatchSize:         cfg.Dispatch.BatchSize,
			MaxBatchesPerPass: cfg.Dispatch.MaxBatchesPerPass,
			Workers:           cfg.Dispatch.Workers,
			LeaseTTL:          cfg.Dispatch.LeaseTTL,
			SendTimeout:       cfg.Dispatch.SendTimeout,
			Cooldown:          cfg.Retry.Cooldown,
		},
		logger,
	)
	retries := worker.NewRetryScheduler(store, cfg.Retry.BatchSize, logger)

	tasks := task.NewBackgroundTaskManager("studio_campaigns", prometheus.DefaultRegisterer, logger)
	tasks.Register(ctx, "dispatch", cfg.Dispatch.PollInterval, dispatcher.RunOnce)
	tasks.Register(ctx, "retry", cfg.Retry.PollInterval, retries.RunOnce)

	handler := httpadapter.NewHandler(svc, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		exitCode = 0
		logger.Info("shutdown signal received")
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
	if timedOut := tasks.StopAll(cfg.HTTP.ShutdownTimeout); timedOut {
		logger.Warn("background loops did not stop in time")
		exitCode = 1
	}
}

// openStore returns the campaign store and the subscriber directory that
// resolves audience filters against the same database.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Store, port.RecipientResolver, func(), error) {
	switch cfg.Store.Driver {
	case configs.StoreDriverSQLite:
		if cfg.Store.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
				return nil, nil, nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		dir := sqlite.NewDirectory(store.DB())
		if cfg.Psql.Seed {
			subs := db.DemoSubscribers(cfg.Psql.SeedCount, rand.New(rand.NewSource(time.Now().UnixNano())))
			if err = dir.Add(ctx, subs...); err != nil {
				_ = store.Close()
				return nil, nil, nil, fmt.Errorf("seed subscribers: %w", err)
			}
			logger.Info("demo subscribers seeded", slog.Int("count", len(subs)))
		}
		logger.Info("using sqlite store", slog.String("path", cfg.Store.SQLitePath))
		return store, dir, func() { _ = store.Close() }, nil
	default:
		if cfg.Psql.RunMigrations {
			version, err := db.Migrate(cfg.Psql.Addr.String())
			if err != nil {
				return nil, nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied successfully", slog.Uint64("version", uint64(version)))
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database connection: %w", err)
		}
		if err = seedPostgres(ctx, cfg.Psql, pool, logger); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgres.NewStore(pool), postgres.NewDirectory(pool), pool.Close, nil
	}
}

func seedPostgres(ctx context.Context, cfg configs.Postgres, pool *pgxpool.Pool, logger *slog.Logger) error {
	if !cfg.Seed {
		return nil
	}
	subs := db.DemoSubscribers(cfg.SeedCount, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err := db.Seed(ctx, pool, subs); err != nil {
		return fmt.Errorf("seed subscribers: %w", err)
	}
	logger.Info("demo subscribers seeded", slog.Int("count", len(subs)))
	return nil
}

func newMailer(cfg configs.Mailer, logger *slog.Logger) (port.Mailer, error) {
	switch cfg.Driver {
	case configs.MailerDriverSMTP:
		return mailer.NewSMTP(cfg)
	default:
		logger.Warn("using simulated mailer, no email will leave this process",
			slog.Float64("success_rate", cfg.SuccessRate))
		return mailer.NewSimulated(cfg.SuccessRate, 200*time.Millisecond, nil, logger.With(slog.String("component", "mailer"))), nil
	}
}
