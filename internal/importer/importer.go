// Package importer loads the supplier tyre feed into the catalogue tables.
//
// A run reads the whole feed, drops incomplete records, and writes the rest
// in fixed-size batches, one transaction per batch. Batches run one after
// another and the first failing batch stops the run; earlier batches stay
// committed. Re-running the same feed converges on the same rows.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

// ErrRunInProgress is returned when another run holds the import lock.
var ErrRunInProgress = errors.New("an import run is already in progress")

const (
	runLockName = "import"
	runLockTTL  = 2 * time.Hour

	defaultDepthWindowMM = 2
)

// Job runs feed imports.
type Job struct {
	db       *gormlib.DB
	settings *repositories.SettingsRepository
	lookups  *repositories.LookupRepository
	runs     *repositories.ImportRunRepository

	lock    common.RunLock
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry

	cfg        config.ImportConfig
	classifier *Classifier
}

// NewJob wires a Job. cache holds catalogue lookups that must be dropped
// after a run; it may be nil.
func NewJob(db *gormlib.DB, sqlDB *sqlx.DB, lock common.RunLock, cache common.CacheInterface, m *metrics.MetricsRegistry, cfg config.ImportConfig) *Job {
	return &Job{
		db:         db,
		settings:   repositories.NewSettingsRepository(sqlDB),
		lookups:    repositories.NewLookupRepository(db),
		runs:       repositories.NewImportRunRepository(db),
		lock:       lock,
		cache:      cache,
		metrics:    m,
		cfg:        cfg,
		classifier: NewClassifier(cfg.TypeRules),
	}
}

func (j *Job) acquire(ctx context.Context) (func(), error) {
	release, err := j.lock.TryLock(ctx, runLockName, runLockTTL)
	if errors.Is(err, common.ErrLockHeld) {
		return nil, ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	return release, nil
}

// Run imports file. trigger records who started the run (CLI or API).
func (j *Job) Run(ctx context.Context, file, trigger string) (*dtos.ImportResult, error) {
	release, err := j.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return j.run(ctx, file, trigger)
}

// Start takes the run lock and imports file in the background. It returns
// ErrRunInProgress immediately when another run holds the lock. done, if not
// nil, is called with the outcome.
func (j *Job) Start(ctx context.Context, file, trigger string, done func(*dtos.ImportResult, error)) error {
	release, err := j.acquire(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer release()
		res, err := j.run(ctx, file, trigger)
		if done != nil {
			done(res, err)
		}
	}()
	return nil
}

// RecentRuns lists the latest import runs, newest first.
func (j *Job) RecentRuns(ctx context.Context, limit int) ([]gorm.ImportRun, error) {
	return j.runs.ListRecent(ctx, limit)
}

func (j *Job) run(ctx context.Context, file, trigger string) (*dtos.ImportResult, error) {
	start := time.Now()
	run := &gorm.ImportRun{
		ID:        uuid.NewString(),
		File:      file,
		Trigger:   trigger,
		Status:    gorm.ImportStatusRunning,
		StartedAt: start,
	}
	if err := j.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("record run start: %w", err)
	}

	log := logging.With("run_id", run.ID, "file", file)
	log.Infow("Import started", "batch_size", j.cfg.BatchSize, "trigger", trigger)

	result := &dtos.ImportResult{RunID: run.ID, File: file}
	runErr := j.execute(ctx, file, result)
	result.Duration = time.Since(start)

	j.finish(context.WithoutCancel(ctx), run, result, runErr)
	if runErr != nil {
		log.Errorw("Import failed", "processed", result.Processed, "skipped", result.Skipped, "batches", result.Batches, "error", runErr)
		return result, runErr
	}

	log.Infow("Import finished",
		"total", result.Total,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"batches", result.Batches,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (j *Job) execute(ctx context.Context, file string, result *dtos.ImportResult) error {
	window, err := j.settings.GetPositiveFloat(ctx, constants.SettingDepthWindowMM, defaultDepthWindowMM)
	if err != nil {
		return fmt.Errorf("read depth window: %w", err)
	}

	sellerID, err := j.lookups.UpsertSeller(ctx, &gorm.Seller{Name: j.cfg.SellerName})
	if err != nil {
		return fmt.Errorf("resolve seller %s: %w", j.cfg.SellerName, err)
	}

	records, rejected, err := ReadFeed(file)
	if err != nil {
		return err
	}
	result.Total = len(records) + rejected
	result.Skipped = rejected
	logging.Info("Loaded feed", "file", file, "objects", result.Total, "depth_window_mm", window)

	normalizer := NewNormalizer(j.classifier, window)
	items := make([]Item, 0, len(records))
	for i, r := range records {
		it, err := normalizer.Normalize(i, r)
		if err != nil {
			result.Skipped++
			logging.Debug("Skipping record", "index", i, "reason", err.Error())
			continue
		}
		items = append(items, it)
	}
	j.metrics.ImportRecordsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))

	writer := NewBatchWriter(j.db, NewLookupCache(j.metrics), sellerID, j.cfg.Source, j.cfg.Currency)
	for n, batch := range chunk(items, j.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return err
		}

		batchNo := n + 1
		t0 := time.Now()
		if err := writer.Write(ctx, batch); err != nil {
			j.metrics.ImportBatchesTotal.WithLabelValues("rolled_back").Inc()
			return fmt.Errorf("batch %d: %w", batchNo, err)
		}
		j.metrics.ImportBatchDuration.Observe(time.Since(t0).Seconds())
		j.metrics.ImportBatchesTotal.WithLabelValues("committed").Inc()
		j.metrics.ImportRecordsTotal.WithLabelValues("processed").Add(float64(len(batch)))

		result.Processed += len(batch)
		result.Batches = batchNo
		logging.Info("Batch committed",
			"batch", batchNo,
			"processed", result.Processed,
			"skipped", result.Skipped,
			"took", time.Since(t0).String(),
		)
	}
	return nil
}

// finish stores the outcome of the run and drops cached catalogue lookups,
// which may now be stale even after a failed run.
func (j *Job) finish(ctx context.Context, run *gorm.ImportRun, result *dtos.ImportResult, runErr error) {
	now := time.Now()
	run.FinishedAt = &now
	run.Total = result.Total
	run.Processed = result.Processed
	run.Skipped = result.Skipped
	run.Batches = result.Batches
	run.Status = gorm.ImportStatusSucceeded
	if runErr != nil {
		run.Status = gorm.ImportStatusFailed
		run.Error = runErr.Error()
	}

	if err := j.runs.Finish(ctx, run); err != nil {
		logging.Error("Failed to record run result", "run_id", run.ID, "error", err)
	}

	j.metrics.ImportRunDuration.WithLabelValues(run.Status).Observe(result.Duration.Seconds())
	if runErr != nil {
		j.metrics.ImportLastRunSuccess.Set(0)
	} else {
		j.metrics.ImportLastRunSuccess.Set(1)
	}

	if j.cache != nil && result.Batches > 0 {
		for _, key := range constants.LookupCacheKeys {
			j.cache.Delete(string(key))
		}
	}
}
