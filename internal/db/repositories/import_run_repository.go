package repositories

import (
	"context"

	"tyrehub/catalog/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ImportRunRepository keeps the history of importer executions.
type ImportRunRepository struct {
	db *gormlib.DB
}

// NewImportRunRepository creates a new import run repository
func NewImportRunRepository(db *gormlib.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Create(ctx context.Context, run *gorm.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Finish stores the final status and counters of run.
func (r *ImportRunRepository) Finish(ctx context.Context, run *gorm.ImportRun) error {
	return r.db.WithContext(ctx).
		Model(&gorm.ImportRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":      run.Status,
			"total":       run.Total,
			"processed":   run.Processed,
			"skipped":     run.Skipped,
			"batches":     run.Batches,
			"error":       run.Error,
			"finished_at": run.FinishedAt,
		}).Error
}

// ListRecent returns the latest runs, newest first.
func (r *ImportRunRepository) ListRecent(ctx context.Context, limit int) ([]gorm.ImportRun, error) {
	var runs []gorm.ImportRun

	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, err
	}

	return runs, nil
}
