package repository

import (
	"context"
	"time"

	"go-stock-sentiment/internal/api/dto"
	"go-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

// SentimentQueryRepository is the read side over scored sentiment rows.
type SentimentQueryRepository interface {
	// HasRecentScored reports whether any row for the ticker was scored at
	// or after since. The completion waiter polls this.
	HasRecentScored(ctx context.Context, ticker string, since time.Time) (bool, error)
	TickerStats(ctx context.Context, ticker string, since time.Time) (*dto.TickerStats, error)
	Timeline(ctx context.Context, ticker string, since time.Time) ([]dto.TimelinePoint, error)
	RecentByTicker(ctx context.Context, ticker string, limit int) ([]entity.SentimentEvent, error)
	Trending(ctx context.Context, since time.Time, minMentions, limit int) ([]dto.TrendingTicker, error)
	Tickers(ctx context.Context) ([]string, error)
	RecentActivity(ctx context.Context, limit int) ([]entity.SentimentEvent, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
}

type sentimentQueryRepository struct {
	db *gorm.DB
}

// NewSentimentQueryRepository creates a new GORM-based read repository.
func NewSentimentQueryRepository(db *gorm.DB) SentimentQueryRepository {
	return &sentimentQueryRepository{db: db}
}

func (r *sentimentQueryRepository) HasRecentScored(ctx context.Context, ticker string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Where("ticker = ? AND scored_at >= ?", ticker, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sentimentQueryRepository) TickerStats(ctx context.Context, ticker string, since time.Time) (*dto.TickerStats, error) {
	var row struct {
		Mentions     int64
		AvgScore     float64
		AvgPosProb   float64
		AvgNegProb   float64
		LastScoredAt *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Select("COUNT(*) AS mentions, COALESCE(AVG(score), 0) AS avg_score, COALESCE(AVG(pos_prob), 0) AS avg_pos_prob, COALESCE(AVG(neg_prob), 0) AS avg_neg_prob, MAX(scored_at) AS last_scored_at").
		Where("ticker = ? AND scored_at >= ?", ticker, since).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.TickerStats{
		Ticker:       ticker,
		Mentions:     row.Mentions,
		AvgScore:     row.AvgScore,
		AvgPosProb:   row.AvgPosProb,
		AvgNegProb:   row.AvgNegProb,
		LastScoredAt: row.LastScoredAt,
	}, nil
}

func (r *sentimentQueryRepository) Timeline(ctx context.Context, ticker string, since time.Time) ([]dto.TimelinePoint, error) {
	var points []dto.TimelinePoint
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Select("TO_CHAR(scored_at::date, 'YYYY-MM-DD') AS date, COUNT(*) AS mentions, AVG(score) AS avg_score").
		Where("ticker = ? AND scored_at >= ?", ticker, since).
		Group("scored_at::date").
		Order("scored_at::date").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *sentimentQueryRepository) RecentByTicker(ctx context.Context, ticker string, limit int) ([]entity.SentimentEvent, error) {
	var rows []entity.SentimentEvent
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("scored_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sentimentQueryRepository) Trending(ctx context.Context, since time.Time, minMentions, limit int) ([]dto.TrendingTicker, error) {
	var rows []dto.TrendingTicker
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Select("ticker, COUNT(*) AS mentions, AVG(score) AS avg_score").
		Where("scored_at >= ?", since).
		Group("ticker").
		Having("COUNT(*) >= ?", minMentions).
		Order("mentions DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sentimentQueryRepository) Tickers(ctx context.Context) ([]string, error) {
	var tickers []string
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Distinct("ticker").
		Order("ticker").
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

func (r *sentimentQueryRepository) RecentActivity(ctx context.Context, limit int) ([]entity.SentimentEvent, error) {
	var rows []entity.SentimentEvent
	err := r.db.WithContext(ctx).
		Order("scored_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sentimentQueryRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	var tickers []string
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentEvent{}).
		Distinct("ticker").
		Where("ticker ILIKE ?", prefix+"%").
		Order("ticker").
		Limit(limit).
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}
