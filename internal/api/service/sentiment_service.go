package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apiconfig "go-stock-sentiment/internal/api/config"
	"go-stock-sentiment/internal/api/dto"
	"go-stock-sentiment/internal/api/repository"
	collectorservice "go-stock-sentiment/internal/collector/service"
	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/pkg/logger"
)

// SentimentService backs the reporting and trigger endpoints.
type SentimentService interface {
	// CollectNow runs a targeted collection pass for the ticker and waits
	// for the first scored row to land.
	CollectNow(ctx context.Context, ticker string) (*dto.CollectResponse, error)
	// WaitForTicker polls until a row for the ticker was scored within the
	// freshness window, the deadline passes, or ctx is cancelled.
	WaitForTicker(ctx context.Context, ticker string, maxWait time.Duration) bool
	Search(ctx context.Context, ticker string, days, limit int, fresh bool) (*dto.SearchResponse, error)
	Trending(ctx context.Context, period string, limit int) ([]dto.TrendingTicker, error)
	Sentiments(ctx context.Context, ticker string, hours int) ([]dto.SentimentRow, error)
	Tickers(ctx context.Context) ([]string, error)
	RecentActivity(ctx context.Context, limit int) ([]dto.SentimentRow, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
}

type sentimentService struct {
	cfg      *apiconfig.Config
	queries  repository.SentimentQueryRepository
	targeted collectorservice.TargetedCollector
	logger   *logger.Logger
}

// NewSentimentService creates a new SentimentService.
func NewSentimentService(
	cfg *apiconfig.Config,
	queries repository.SentimentQueryRepository,
	targeted collectorservice.TargetedCollector,
	log *logger.Logger,
) SentimentService {
	return &sentimentService{
		cfg:      cfg,
		queries:  queries,
		targeted: targeted,
		logger:   log,
	}
}

func (s *sentimentService) CollectNow(ctx context.Context, ticker string) (*dto.CollectResponse, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is empty")
	}

	published, err := s.targeted.Collect(ctx, ticker)
	if err != nil {
		return nil, err
	}

	completed := false
	if published > 0 {
		completed = s.WaitForTicker(ctx, ticker, s.cfg.Waiter.MaxWait)
	}

	return &dto.CollectResponse{
		Ticker:          ticker,
		EventsPublished: published,
		Completed:       completed,
	}, nil
}

// WaitForTicker never returns an error; a failed poll just means another
// round. Returns false when the deadline passes or ctx is cancelled first.
func (s *sentimentService) WaitForTicker(ctx context.Context, ticker string, maxWait time.Duration) bool {
	pollInterval := s.cfg.Waiter.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	freshness := s.cfg.Waiter.FreshnessWindow
	if freshness <= 0 {
		freshness = 3 * time.Minute
	}

	deadline := time.Now().Add(maxWait)
	for {
		found, err := s.queries.HasRecentScored(ctx, ticker, time.Now().Add(-freshness))
		if err != nil {
			s.logger.Warn("Completion poll failed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		} else if found {
			return true
		}

		if time.Now().Add(pollInterval).After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(pollInterval):
		}
	}
}

// Search returns the combined stats view, optionally forcing a fresh
// collection first. A failed collection degrades to whatever is stored.
func (s *sentimentService) Search(ctx context.Context, ticker string, days, limit int, fresh bool) (*dto.SearchResponse, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is empty")
	}
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 20
	}

	collected := false
	if fresh || !s.hasAnyRecent(ctx, ticker) {
		if _, err := s.CollectNow(ctx, ticker); err != nil {
			s.logger.Warn("On-demand collection failed, serving stored data",
				logger.ErrorField(err), logger.StringField("ticker", ticker))
		} else {
			collected = true
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	stats, err := s.queries.TickerStats(ctx, ticker, since)
	if err != nil {
		return nil, err
	}
	timeline, err := s.queries.Timeline(ctx, ticker, since)
	if err != nil {
		return nil, err
	}
	recent, err := s.queries.RecentByTicker(ctx, ticker, limit)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{
		Ticker:    ticker,
		Collected: collected,
		Stats:     stats,
		Timeline:  timeline,
		Recent:    toSentimentRows(recent),
	}, nil
}

func (s *sentimentService) hasAnyRecent(ctx context.Context, ticker string) bool {
	freshness := s.cfg.Waiter.FreshnessWindow
	if freshness <= 0 {
		freshness = 3 * time.Minute
	}
	found, err := s.queries.HasRecentScored(ctx, ticker, time.Now().Add(-freshness))
	return err == nil && found
}

func (s *sentimentService) Trending(ctx context.Context, period string, limit int) ([]dto.TrendingTicker, error) {
	if limit <= 0 {
		limit = 10
	}
	window, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.queries.Trending(ctx, time.Now().Add(-window), 2, limit)
}

func (s *sentimentService) Sentiments(ctx context.Context, ticker string, hours int) ([]dto.SentimentRow, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is empty")
	}
	if hours <= 0 {
		hours = 24
	}

	stats, err := s.queries.RecentByTicker(ctx, ticker, 200)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	rows := make([]dto.SentimentRow, 0, len(stats))
	for _, row := range stats {
		if row.ScoredAt.Before(cutoff) {
			continue
		}
		rows = append(rows, toSentimentRow(row))
	}
	return rows, nil
}

func (s *sentimentService) Tickers(ctx context.Context) ([]string, error) {
	return s.queries.Tickers(ctx)
}

func (s *sentimentService) RecentActivity(ctx context.Context, limit int) ([]dto.SentimentRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.queries.RecentActivity(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toSentimentRows(rows), nil
}

func (s *sentimentService) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.queries.Autocomplete(ctx, prefix, limit)
}

func parsePeriod(period string) (time.Duration, error) {
	switch period {
	case "", "24h":
		return 24 * time.Hour, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	case "30d":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown period: %s", period)
	}
}

func toSentimentRow(e entity.SentimentEvent) dto.SentimentRow {
	return dto.SentimentRow{
		SourceID:  e.SourceID,
		Ticker:    e.Ticker,
		ModelName: e.ModelName,
		Score:     e.Score,
		PosProb:   e.PosProb,
		NegProb:   e.NegProb,
		CreatedAt: e.CreatedAt,
		ScoredAt:  e.ScoredAt,
	}
}

func toSentimentRows(events []entity.SentimentEvent) []dto.SentimentRow {
	rows := make([]dto.SentimentRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, toSentimentRow(e))
	}
	return rows
}
