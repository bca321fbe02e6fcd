package repository

import (
	"context"

	"go-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// CollectorRunRepository defines the interface for collection pass audit rows.
type CollectorRunRepository interface {
	Create(ctx context.Context, run *entity.CollectorRun) error
	FindRecent(ctx context.Context, limit int) ([]entity.CollectorRun, error)
}

type collectorRunRepository struct {
	db *gorm.DB
}

// NewCollectorRunRepository creates a new GORM-based collector run repository.
func NewCollectorRunRepository(db *gorm.DB) CollectorRunRepository {
	return &collectorRunRepository{db: db}
}

// Create stores the audit record of one collection pass.
func (r *collectorRunRepository) Create(ctx context.Context, run *entity.CollectorRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// FindRecent returns the latest collection passes, newest first.
func (r *collectorRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.CollectorRun, error) {
	var runs []entity.CollectorRun
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
