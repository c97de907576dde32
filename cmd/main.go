package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "adledger/internal/adapter/http"
	"adledger/internal/adapter/postgres"
	"adledger/internal/adapter/usecase"
	"adledger/internal/config"
	"adledger/internal/db"
	"adledger/internal/scheduler"
)

// main is the entry point of the adledger service. It loads configuration,
// optionally runs database migrations and seeding, wires the enforcement
// engine to the PostgreSQL store, then starts the job scheduler and the
// HTTP server. On receiving a termination signal both are shut down
// gracefully.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.RunSeed {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	store := postgres.NewStore(pool)
	engine := usecase.NewEnforcer(store, logger, cfg.Enforcer.CheckFrequency, cfg.Enforcer.PageSize)

	policy := scheduler.Policy{
		MaxAttempts:     cfg.Scheduler.MaxAttempts,
		InitialInterval: cfg.Scheduler.RetryInterval,
		MaxInterval:     cfg.Scheduler.RetryMaxInterval,
		Jitter:          cfg.Scheduler.RetryJitter,
	}
	sched := scheduler.New(policy, logger,
		scheduler.Job{Name: "check_and_pause_budgets", Every: cfg.Scheduler.CheckEvery, Run: engine.CheckAndPauseBudgets},
		scheduler.Job{Name: "reset_daily_spend", Every: cfg.Scheduler.DailyResetEvery, Run: engine.ResetDailySpend},
		scheduler.Job{Name: "reset_monthly_spend", Every: cfg.Scheduler.MonthlyResetEvery, Run: engine.ResetMonthlySpend},
		scheduler.Job{Name: "enforce_dayparting", Every: cfg.Scheduler.DaypartingEvery, Run: engine.EnforceDayparting},
	)
	go sched.Run(ctx)

	handler := httpadapter.NewHandler(engine, store, sched, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err = srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
