package service

import (
	"context"
	"time"

	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/internal/queue"
	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/dto"
	"go-stock-sentiment/internal/worker/repository"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/telegram"
)

// ConsumerService drains the mention queue and turns candidate events into
// per-ticker sentiment rows.
type ConsumerService interface {
	// ProcessBatch claims and processes the next queue entry, if any.
	ProcessBatch(ctx context.Context)
	// ProcessRetries reclaims one stale pending entry and either reprocesses
	// it or parks it once it has exhausted its retries.
	ProcessRetries(ctx context.Context)
}

type consumerService struct {
	cfg        *workerconfig.Config
	mentions   queue.MentionQueue
	classifier repository.Classifier
	events     repository.SentimentEventRepository
	notifier   telegram.Notifier
	logger     *logger.Logger
}

// NewConsumerService creates a new ConsumerService.
func NewConsumerService(
	cfg *workerconfig.Config,
	mentions queue.MentionQueue,
	classifier repository.Classifier,
	events repository.SentimentEventRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) ConsumerService {
	return &consumerService{
		cfg:        cfg,
		mentions:   mentions,
		classifier: classifier,
		events:     events,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *consumerService) ProcessBatch(ctx context.Context) {
	delivery, err := s.mentions.ReadOne(ctx, s.cfg.Worker.ReadBlockTimeout)
	if err != nil {
		s.logger.Error("Failed to read from mention queue", logger.ErrorField(err))
		return
	}
	if delivery == nil {
		return
	}

	s.processDelivery(ctx, delivery)
}

func (s *consumerService) ProcessRetries(ctx context.Context) {
	delivery, err := s.mentions.ClaimStale(ctx, s.cfg.Worker.MaxIdleDuration)
	if err != nil {
		s.logger.Error("Failed to claim stale entry", logger.ErrorField(err))
		return
	}
	if delivery == nil {
		return
	}

	if delivery.RetryCount >= int64(s.cfg.Worker.MaxRetry) {
		s.park(ctx, delivery)
		return
	}

	s.logger.Info("Reprocessing stale entry",
		logger.StringField("entry_id", delivery.ID),
		logger.Field("retries", delivery.RetryCount))
	s.processDelivery(ctx, delivery)
}

// processDelivery scores the event and writes one row per ticker. The entry
// is acked only when every per-ticker write succeeded; otherwise it stays
// pending and the retry loop picks it up again.
func (s *consumerService) processDelivery(ctx context.Context, delivery *queue.Delivery) {
	event := &delivery.Event

	score := s.scoreEvent(ctx, event)

	allWritten := true
	for _, ticker := range event.Tickers {
		if err := s.storeTickerScore(ctx, event, ticker, score); err != nil {
			s.logger.Error("Failed to store sentiment row",
				logger.ErrorField(err),
				logger.StringField("entry_id", delivery.ID),
				logger.StringField("source_id", event.SourceID),
				logger.StringField("ticker", ticker))
			allWritten = false
		}
	}

	if !allWritten {
		return
	}

	if err := s.mentions.Ack(ctx, delivery.ID); err != nil {
		s.logger.Error("Failed to ack entry", logger.ErrorField(err), logger.StringField("entry_id", delivery.ID))
		return
	}

	s.logger.Debug("Processed candidate event",
		logger.StringField("entry_id", delivery.ID),
		logger.StringField("source_id", event.SourceID),
		logger.IntField("tickers", len(event.Tickers)))
}

// scoreEvent runs the classifier, falling back to a neutral score when the
// model call fails. Scoring is best-effort; a bad model call must not block
// the pipeline.
func (s *consumerService) scoreEvent(ctx context.Context, event *entity.CandidateEvent) dto.SentimentScore {
	score, err := s.classifier.Score(ctx, event.ScoringText())
	if err != nil {
		s.logger.Warn("Classifier failed, recording neutral score",
			logger.ErrorField(err),
			logger.StringField("source_id", event.SourceID))
		return dto.NeutralScore()
	}
	return *score
}

func (s *consumerService) storeTickerScore(ctx context.Context, event *entity.CandidateEvent, ticker string, score dto.SentimentScore) error {
	exists, err := s.events.ExistsForSource(ctx, event.SourceID, ticker)
	if err != nil {
		return err
	}
	if exists {
		// Redelivered entry whose row already landed; nothing to do.
		return nil
	}

	return s.events.Create(ctx, &entity.SentimentEvent{
		SourceID:  event.SourceID,
		Ticker:    ticker,
		ModelName: s.classifier.ModelName(),
		Score:     score.Score,
		PosProb:   score.PosProb,
		NegProb:   score.NegProb,
		CreatedAt: event.OccurredAt,
	})
}

// park moves a poison entry to the failed stream and alerts the operator.
func (s *consumerService) park(ctx context.Context, delivery *queue.Delivery) {
	if err := s.mentions.Park(ctx, delivery); err != nil {
		s.logger.Error("Failed to park entry", logger.ErrorField(err), logger.StringField("entry_id", delivery.ID))
		return
	}

	s.logger.Warn("Entry exceeded max retries and was parked",
		logger.StringField("entry_id", delivery.ID),
		logger.StringField("source_id", delivery.Event.SourceID),
		logger.Field("retries", delivery.RetryCount))

	msg := telegram.FormatParkedEntryMessage(time.Now(), delivery.ID, delivery.Event.SourceID, delivery.Event.Tickers)
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send park alert", logger.ErrorField(err))
	}
}
