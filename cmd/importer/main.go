package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/db"
	"tyrehub/catalog/internal/importer"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	file := flag.String("file", cfg.Import.File, "path to the JSON feed")
	flag.Parse()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.InitPostgresORM(cfg.Postgres.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err)
		return 1
	}
	sqlDB, err := db.InitPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err)
		return 1
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, gdb); err != nil {
		logging.Error("Migration failed", "error", err)
		return 1
	}

	cache, lock := common.NewBackends(cfg.Redis)
	defer cache.Close()

	job := importer.NewJob(gdb, sqlDB, lock, cache, metrics.Default(), cfg.Import)
	res, err := job.Run(ctx, *file, constants.ImportTriggerCLI)
	if err != nil {
		if errors.Is(err, importer.ErrRunInProgress) {
			logging.Warn("Another import run holds the lock", "file", *file)
		} else {
			logging.Error("Import failed", "file", *file, "error", err)
		}
		return 1
	}

	logging.Info("Import finished",
		"run_id", res.RunID,
		"total", res.Total,
		"processed", res.Processed,
		"skipped", res.Skipped,
		"batches", res.Batches,
		"duration", res.Duration.String(),
	)
	return 0
}
