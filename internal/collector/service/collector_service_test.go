package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	collectorconfig "go-stock-sentiment/internal/collector/config"
	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/source"
	"go-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue is an in-memory MentionQueue capturing appended events.
type fakeQueue struct {
	mu        sync.Mutex
	events    []entity.CandidateEvent
	appendErr error
}

func (f *fakeQueue) Append(_ context.Context, event *entity.CandidateEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return "", f.appendErr
	}
	f.events = append(f.events, *event)
	return fmt.Sprintf("%d-0", len(f.events)), nil
}

func (f *fakeQueue) ReadOne(context.Context, time.Duration) (*queue.Delivery, error) {
	return nil, nil
}
func (f *fakeQueue) Ack(context.Context, string) error      { return nil }
func (f *fakeQueue) EnsureGroup(context.Context) error      { return nil }
func (f *fakeQueue) Park(context.Context, *queue.Delivery) error { return nil }
func (f *fakeQueue) ClaimStale(context.Context, time.Duration) (*queue.Delivery, error) {
	return nil, nil
}

func (f *fakeQueue) captured() []entity.CandidateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.CandidateEvent, len(f.events))
	copy(out, f.events)
	return out
}

// fakeSource serves canned posts and canned search results.
type fakeSource struct {
	name          string
	posts         []source.Post
	searchResults map[string][]source.Post
	fetchErr      error
	searchErr     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchNewest(_ context.Context, limit int) ([]source.Post, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.posts) > limit {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakeSource) Search(_ context.Context, query string, _ int) ([]source.Post, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults[query], nil
}

func testCollectorLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testCollectorConfig() *collectorconfig.Config {
	return &collectorconfig.Config{
		Collector: collectorconfig.Collector{
			PostsPerSource: 50,
			DedupeTTL:      time.Minute,
		},
	}
}

func TestRunPass_PublishesOnlyPostsWithTickers(t *testing.T) {
	q := &fakeQueue{}
	src := &fakeSource{
		name: "wallstreetbets",
		posts: []source.Post{
			{ID: "t3_1", Title: "YOLO $GME", Body: "to the moon", CreatedAt: time.Now()},
			{ID: "t3_2", Title: "lunch thread", Body: "what did everyone eat", CreatedAt: time.Now()},
			{ID: "t3_3", Title: "bought AAPL today", Body: "", CreatedAt: time.Now()},
		},
	}

	svc := NewCollectorService(testCollectorConfig(), []source.TextSource{src}, q, nil, testCollectorLogger(t))
	svc.RunPass(context.Background())

	events := q.captured()
	require.Len(t, events, 2)
	assert.Equal(t, "t3_1", events[0].SourceID)
	assert.Equal(t, []string{"GME"}, events[0].Tickers)
	assert.Equal(t, "wallstreetbets", events[0].SourceChannel)
	assert.Equal(t, "t3_3", events[1].SourceID)
	assert.Contains(t, events[1].Tickers, "AAPL")
}

func TestRunPass_SourceFailureIsolated(t *testing.T) {
	q := &fakeQueue{}
	broken := &fakeSource{name: "stocks", fetchErr: fmt.Errorf("source unavailable")}
	working := &fakeSource{
		name: "investing",
		posts: []source.Post{
			{ID: "t3_9", Title: "$TSLA delivery numbers", CreatedAt: time.Now()},
		},
	}

	svc := NewCollectorService(testCollectorConfig(), []source.TextSource{broken, working}, q, nil, testCollectorLogger(t))
	svc.RunPass(context.Background())

	events := q.captured()
	require.Len(t, events, 1)
	assert.Equal(t, "t3_9", events[0].SourceID)
}

func TestRunPass_DedupesAcrossPasses(t *testing.T) {
	q := &fakeQueue{}
	src := &fakeSource{
		name: "stocks",
		posts: []source.Post{
			{ID: "t3_1", Title: "$NVDA breakout", CreatedAt: time.Now()},
		},
	}

	svc := NewCollectorService(testCollectorConfig(), []source.TextSource{src}, q, nil, testCollectorLogger(t))
	svc.RunPass(context.Background())
	svc.RunPass(context.Background())

	assert.Len(t, q.captured(), 1, "same post id within the dedupe TTL is published once")
}

func TestRunPass_AppendFailureDoesNotMarkSeen(t *testing.T) {
	q := &fakeQueue{appendErr: fmt.Errorf("transport down")}
	src := &fakeSource{
		name: "stocks",
		posts: []source.Post{
			{ID: "t3_1", Title: "$NVDA breakout", CreatedAt: time.Now()},
		},
	}

	svc := NewCollectorService(testCollectorConfig(), []source.TextSource{src}, q, nil, testCollectorLogger(t))
	svc.RunPass(context.Background())

	// Once the queue recovers the post is retried on the next pass.
	q.appendErr = nil
	svc.RunPass(context.Background())
	assert.Len(t, q.captured(), 1)
}
