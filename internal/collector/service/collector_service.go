package service

import (
	"context"
	"encoding/json"
	"time"

	"go-stock-sentiment/internal/collector/config"
	"go-stock-sentiment/internal/collector/repository"
	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/internal/extractor"
	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/source"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/utils"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
)

// CollectorService runs the broad collection pass: scan every configured
// source, extract tickers, and enqueue one candidate event per post that
// mentions at least one.
type CollectorService interface {
	Start(ctx context.Context) error
	RunPass(ctx context.Context)
}

type collectorService struct {
	cfg       *config.Config
	sources   []source.TextSource
	mentions  queue.MentionQueue
	runRepo   repository.CollectorRunRepository
	logger    *logger.Logger
	seenCache *cache.Cache
	cron      *cron.Cron
}

// NewCollectorService creates a new broad collector.
func NewCollectorService(
	cfg *config.Config,
	sources []source.TextSource,
	mentions queue.MentionQueue,
	runRepo repository.CollectorRunRepository,
	log *logger.Logger,
) CollectorService {
	dedupeTTL := cfg.Collector.DedupeTTL
	if dedupeTTL <= 0 {
		dedupeTTL = 30 * time.Minute
	}
	return &collectorService{
		cfg:       cfg,
		sources:   sources,
		mentions:  mentions,
		runRepo:   runRepo,
		logger:    log,
		seenCache: cache.New(dedupeTTL, 10*time.Minute),
		cron:      cron.New(),
	}
}

// Start schedules the periodic pass and blocks until the context is done.
func (s *collectorService) Start(ctx context.Context) error {
	schedule := s.cfg.Collector.Schedule
	if schedule == "" {
		schedule = "@every 5m"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.RunPass(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Broad collector scheduled",
		logger.StringField("schedule", schedule),
		logger.IntField("sources", len(s.sources)))

	s.cron.Start()
	// One pass immediately so a fresh deployment does not idle for a full
	// schedule interval.
	s.RunPass(ctx)

	<-ctx.Done()
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	s.logger.Info("Broad collector stopped")
	return nil
}

// RunPass performs one collection pass over all sources. Source failures
// are logged and skipped; the pass always writes an audit row.
func (s *collectorService) RunPass(ctx context.Context) {
	startedAt := time.Now().UTC()
	var (
		sourcesFailed []string
		postsSeen     int
		published     int
		perSource     = make(map[string]int)
	)

	limit := s.cfg.Collector.PostsPerSource
	if limit <= 0 {
		limit = 50
	}

	for _, src := range s.sources {
		if !utils.ShouldContinue(ctx) {
			s.logger.Info("Collection pass interrupted")
			break
		}

		posts, err := src.FetchNewest(ctx, limit)
		if err != nil {
			s.logger.Error("Failed to fetch from source",
				logger.ErrorField(err),
				logger.StringField("source", src.Name()))
			sourcesFailed = append(sourcesFailed, src.Name())
			continue
		}

		postsSeen += len(posts)
		count := s.publishPosts(ctx, src.Name(), posts)
		published += count
		perSource[src.Name()] = count
	}

	completedAt := time.Now().UTC()
	s.logger.Info("Collection pass finished",
		logger.IntField("posts_seen", postsSeen),
		logger.IntField("events_published", published),
		logger.IntField("sources_failed", len(sourcesFailed)),
		logger.DurationField("elapsed", completedAt.Sub(startedAt)))

	s.recordRun(ctx, startedAt, completedAt, sourcesFailed, postsSeen, published, perSource)
}

// publishPosts extracts tickers from each post and appends candidate events
// for posts that mention at least one. Posts already seen within the dedupe
// TTL are skipped.
func (s *collectorService) publishPosts(ctx context.Context, channel string, posts []source.Post) int {
	published := 0
	for _, post := range posts {
		if _, seen := s.seenCache.Get(post.ID); seen {
			continue
		}

		tickers := extractor.Extract(post.Title + "  " + post.Body)
		if len(tickers) == 0 {
			s.seenCache.SetDefault(post.ID, struct{}{})
			continue
		}

		event := &entity.CandidateEvent{
			SourceID:      post.ID,
			SourceChannel: channel,
			OccurredAt:    post.CreatedAt,
			Tickers:       tickers,
			Title:         utils.CleanToValidUTF8(post.Title),
			Body:          utils.CleanToValidUTF8(post.Body),
		}

		entryID, err := s.mentions.Append(ctx, event)
		if err != nil {
			s.logger.Error("Failed to enqueue candidate event",
				logger.ErrorField(err),
				logger.StringField("source_id", post.ID),
				logger.StringField("channel", channel))
			continue
		}

		s.seenCache.SetDefault(post.ID, struct{}{})
		published++
		s.logger.Debug("Candidate event enqueued",
			logger.StringField("entry_id", entryID),
			logger.StringField("source_id", post.ID),
			logger.Field("tickers", tickers))
	}
	return published
}

func (s *collectorService) recordRun(ctx context.Context, startedAt, completedAt time.Time, sourcesFailed []string, postsSeen, published int, perSource map[string]int) {
	if s.runRepo == nil {
		return
	}

	details, err := json.Marshal(map[string]interface{}{"per_source": perSource})
	if err != nil {
		s.logger.Error("Failed to marshal run details", logger.ErrorField(err))
		details = nil
	}

	run := &entity.CollectorRun{
		StartedAt:       startedAt,
		CompletedAt:     &completedAt,
		SourcesFailed:   sourcesFailed,
		PostsSeen:       postsSeen,
		EventsPublished: published,
		Details:         details,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to record collection pass", logger.ErrorField(err))
	}
}
