package jobs

import (
	"context"
	"errors"
	"time"

	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/importer"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/gorm"
)

// ImportRunner is the slice of importer.Job the scheduler needs.
type ImportRunner interface {
	Run(ctx context.Context, file, trigger string) (*dtos.ImportResult, error)
	RecentRuns(ctx context.Context, limit int) ([]gorm.ImportRun, error)
}

// ScheduledImport re-imports the configured feed on a fixed interval.
type ScheduledImport struct {
	job      ImportRunner
	file     string
	interval time.Duration
	now      func() time.Time
}

func NewScheduledImport(job ImportRunner, file string, interval time.Duration) *ScheduledImport {
	return &ScheduledImport{
		job:      job,
		file:     file,
		interval: interval,
		now:      time.Now,
	}
}

// RunScheduled blocks until ctx is done.
func (s *ScheduledImport) RunScheduled(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start only if the last run is older than one interval
	if s.shouldRunInitial(ctx) {
		s.runOnce(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			logging.Info("Shutting down scheduled import")
			return
		}
	}
}

func (s *ScheduledImport) shouldRunInitial(ctx context.Context) bool {
	runs, err := s.job.RecentRuns(ctx, 1)
	if err != nil {
		logging.Warn("Could not read import history, running now", "error", err)
		return true
	}
	if len(runs) == 0 {
		return true
	}
	return s.now().Sub(runs[0].StartedAt) >= s.interval
}

func (s *ScheduledImport) runOnce(ctx context.Context) {
	res, err := s.job.Run(ctx, s.file, constants.ImportTriggerSchedule)
	switch {
	case errors.Is(err, importer.ErrRunInProgress):
		logging.Info("Scheduled import skipped, another run is in progress")
	case err != nil:
		logging.Error("Scheduled import failed", "file", s.file, "error", err)
	default:
		logging.Info("Scheduled import finished",
			"run_id", res.RunID,
			"processed", res.Processed,
			"skipped", res.Skipped,
		)
	}
}
