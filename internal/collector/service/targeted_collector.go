package service

import (
	"context"
	"fmt"
	"strings"

	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/internal/extractor"
	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/source"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/utils"
)

// TargetedCollector produces candidate events for one specific ticker on
// demand. Search relevance is not trusted: every result is re-run through
// the extractor and only posts where the ticker is actually present are
// enqueued, with the event's ticker set restricted to the requested one.
type TargetedCollector interface {
	Collect(ctx context.Context, ticker string) (int, error)
}

type targetedCollector struct {
	sources     []source.TextSource
	mentions    queue.MentionQueue
	logger      *logger.Logger
	searchLimit int
	maxResults  int
}

// NewTargetedCollector creates a targeted producer over the given sources.
func NewTargetedCollector(sources []source.TextSource, mentions queue.MentionQueue, log *logger.Logger, searchLimit, maxResults int) TargetedCollector {
	if searchLimit <= 0 {
		searchLimit = 25
	}
	if maxResults <= 0 {
		maxResults = 30
	}
	return &targetedCollector{
		sources:     sources,
		mentions:    mentions,
		logger:      log,
		searchLimit: searchLimit,
		maxResults:  maxResults,
	}
}

// queryVariants returns the search queries tried per source, from most to
// least specific.
func queryVariants(ticker string) []string {
	return []string{
		fmt.Sprintf("%q", ticker),
		ticker + " stock",
		ticker + " earnings",
		ticker,
	}
}

// Collect searches every source for the ticker and enqueues confirmed
// mentions. Returns the number of events appended. Per-source and per-query
// failures are logged and skipped; an error is returned only when no source
// could be queried at all.
func (t *targetedCollector) Collect(ctx context.Context, ticker string) (int, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return 0, fmt.Errorf("ticker is empty")
	}

	var (
		published int
		queried   int
		seen      = make(map[string]struct{})
	)

	for _, src := range t.sources {
		for _, query := range queryVariants(ticker) {
			if published >= t.maxResults || !utils.ShouldContinue(ctx) {
				break
			}

			posts, err := src.Search(ctx, query, t.searchLimit)
			if err != nil {
				t.logger.Error("Targeted search failed",
					logger.ErrorField(err),
					logger.StringField("source", src.Name()),
					logger.StringField("query", query))
				continue
			}
			queried++

			for _, post := range posts {
				if published >= t.maxResults {
					break
				}
				if _, dup := seen[post.ID]; dup {
					continue
				}
				seen[post.ID] = struct{}{}

				// Search relevance is not ticker presence: confirm with the
				// extractor before producing anything.
				if !utils.ContainsString(extractor.Extract(post.Title+"  "+post.Body), ticker) {
					continue
				}

				event := &entity.CandidateEvent{
					SourceID:      post.ID,
					SourceChannel: src.Name(),
					OccurredAt:    post.CreatedAt,
					Tickers:       []string{ticker},
					Title:         utils.CleanToValidUTF8(post.Title),
					Body:          utils.CleanToValidUTF8(post.Body),
				}
				if _, err := t.mentions.Append(ctx, event); err != nil {
					t.logger.Error("Failed to enqueue targeted event",
						logger.ErrorField(err),
						logger.StringField("source_id", post.ID),
						logger.StringField("ticker", ticker))
					continue
				}
				published++
			}
		}
	}

	if queried == 0 {
		return 0, fmt.Errorf("all sources failed for ticker %s", ticker)
	}

	t.logger.Info("Targeted collection finished",
		logger.StringField("ticker", ticker),
		logger.IntField("events_published", published))
	return published, nil
}
