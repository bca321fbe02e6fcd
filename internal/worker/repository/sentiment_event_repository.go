package repository

import (
	"context"

	"go-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// SentimentEventRepository defines the interface for scored sentiment rows.
type SentimentEventRepository interface {
	Create(ctx context.Context, event *entity.SentimentEvent) error
	// ExistsForSource reports whether the (post, ticker) pair has already
	// been scored, so redelivered entries do not produce duplicate rows.
	ExistsForSource(ctx context.Context, sourceID, ticker string) (bool, error)
}

type sentimentEventRepository struct {
	db *gorm.DB
}

// NewSentimentEventRepository creates a new GORM-based sentiment event repository.
func NewSentimentEventRepository(db *gorm.DB) SentimentEventRepository {
	return &sentimentEventRepository{db: db}
}

// Create stores one per-ticker sentiment row.
func (r *sentimentEventRepository) Create(ctx context.Context, event *entity.SentimentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *sentimentEventRepository) ExistsForSource(ctx context.Context, sourceID, ticker string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Where("source_id = ? AND ticker = ?", sourceID, ticker).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
