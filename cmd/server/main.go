package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"tyrehub/catalog/internal/api"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/db"
	"tyrehub/catalog/internal/jobs"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/routes"
	"tyrehub/catalog/internal/workers"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Catalogue server starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.InitPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	gdb, err := db.InitPostgresORM(cfg.Postgres.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err)
	}

	if err := db.Migrate(ctx, gdb); err != nil {
		logging.Fatal("Migration failed", "error", err)
	}

	cache, lock := common.NewBackends(cfg.Redis)
	defer cache.Close()

	metricsReg := metrics.Default()
	deps, err := api.InitDependencies(cfg, gdb, sqlDB, cache, lock, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err)
	}
	if cfg.Admin.JWTSecret == "" {
		logging.Warn("ADMIN_JWT_SECRET is empty, admin endpoints will reject every request")
	}

	router := routes.RegisterRoutes(deps, routes.RouterOptions{
		BaseCtx:        ctx,
		Metrics:        metricsReg,
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		UpSince:        time.Now(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Import.Schedule > 0 {
		scheduled := jobs.NewScheduledImport(deps.Services.Import, cfg.Import.File, cfg.Import.Schedule)
		g.Go(func() error {
			logging.Info("Scheduled import enabled", "interval", cfg.Import.Schedule.String(), "file", cfg.Import.File)
			scheduled.RunScheduled(gctx)
			return nil
		})
	}
	if cfg.HTTP.LookupRefresh > 0 {
		g.Go(func() error {
			workers.StartLookupCacheFiller(gctx, deps.Services.Catalog, cfg.HTTP.LookupRefresh)
			return nil
		})
	}

	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.HTTP.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
