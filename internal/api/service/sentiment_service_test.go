package service

import (
	"context"
	"sync"
	"testing"
	"time"

	apiconfig "go-stock-sentiment/internal/api/config"
	"go-stock-sentiment/internal/api/dto"
	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueryRepo answers HasRecentScored from a flag and serves canned rows.
type fakeQueryRepo struct {
	mu        sync.Mutex
	hasRecent bool
	polls     int
	recent    []entity.SentimentEvent
}

func (f *fakeQueryRepo) HasRecentScored(context.Context, string, time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	return f.hasRecent, nil
}

func (f *fakeQueryRepo) setRecent(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hasRecent = v
}

func (f *fakeQueryRepo) TickerStats(_ context.Context, ticker string, _ time.Time) (*dto.TickerStats, error) {
	return &dto.TickerStats{Ticker: ticker, Mentions: int64(len(f.recent))}, nil
}

func (f *fakeQueryRepo) Timeline(context.Context, string, time.Time) ([]dto.TimelinePoint, error) {
	return nil, nil
}

func (f *fakeQueryRepo) RecentByTicker(context.Context, string, int) ([]entity.SentimentEvent, error) {
	return f.recent, nil
}

func (f *fakeQueryRepo) Trending(context.Context, time.Time, int, int) ([]dto.TrendingTicker, error) {
	return nil, nil
}

func (f *fakeQueryRepo) Tickers(context.Context) ([]string, error) { return nil, nil }

func (f *fakeQueryRepo) RecentActivity(context.Context, int) ([]entity.SentimentEvent, error) {
	return f.recent, nil
}

func (f *fakeQueryRepo) Autocomplete(context.Context, string, int) ([]string, error) {
	return nil, nil
}

type fakeTargeted struct {
	published int
	err       error
	calls     int
}

func (f *fakeTargeted) Collect(context.Context, string) (int, error) {
	f.calls++
	return f.published, f.err
}

func testAPILogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testAPIConfig() *apiconfig.Config {
	return &apiconfig.Config{
		Waiter: apiconfig.Waiter{
			MaxWait:         100 * time.Millisecond,
			PollInterval:    10 * time.Millisecond,
			FreshnessWindow: 3 * time.Minute,
		},
	}
}

func TestWaitForTicker_ImmediateHit(t *testing.T) {
	repo := &fakeQueryRepo{hasRecent: true}
	svc := NewSentimentService(testAPIConfig(), repo, &fakeTargeted{}, testAPILogger(t))

	start := time.Now()
	assert.True(t, svc.WaitForTicker(context.Background(), "GME", 100*time.Millisecond))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitForTicker_DeadlineBoundsTheWait(t *testing.T) {
	repo := &fakeQueryRepo{}
	svc := NewSentimentService(testAPIConfig(), repo, &fakeTargeted{}, testAPILogger(t))

	start := time.Now()
	assert.False(t, svc.WaitForTicker(context.Background(), "GME", 80*time.Millisecond))
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Greater(t, repo.polls, 1, "the waiter keeps polling until the deadline")
}

func TestWaitForTicker_RowLandsMidWait(t *testing.T) {
	repo := &fakeQueryRepo{}
	svc := NewSentimentService(testAPIConfig(), repo, &fakeTargeted{}, testAPILogger(t))

	go func() {
		time.Sleep(30 * time.Millisecond)
		repo.setRecent(true)
	}()
	assert.True(t, svc.WaitForTicker(context.Background(), "GME", time.Second))
}

func TestWaitForTicker_ContextCancellation(t *testing.T) {
	repo := &fakeQueryRepo{}
	svc := NewSentimentService(testAPIConfig(), repo, &fakeTargeted{}, testAPILogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	assert.False(t, svc.WaitForTicker(ctx, "GME", 10*time.Second))
	assert.Less(t, time.Since(start), time.Second, "cancellation cuts the wait short")
}

func TestCollectNow_WaitsOnlyWhenSomethingWasPublished(t *testing.T) {
	repo := &fakeQueryRepo{}
	targeted := &fakeTargeted{published: 0}
	svc := NewSentimentService(testAPIConfig(), repo, targeted, testAPILogger(t))

	resp, err := svc.CollectNow(context.Background(), "gme")
	require.NoError(t, err)
	assert.Equal(t, "GME", resp.Ticker)
	assert.Equal(t, 0, resp.EventsPublished)
	assert.False(t, resp.Completed)
	assert.Zero(t, repo.polls, "nothing published means nothing to wait for")
}

func TestSearch_CollectionFailureServesStoredData(t *testing.T) {
	repo := &fakeQueryRepo{
		recent: []entity.SentimentEvent{
			{SourceID: "t3_1", Ticker: "GME", Score: 0.4, ScoredAt: time.Now()},
		},
	}
	targeted := &fakeTargeted{err: context.DeadlineExceeded}
	svc := NewSentimentService(testAPIConfig(), repo, targeted, testAPILogger(t))

	resp, err := svc.Search(context.Background(), "GME", 7, 20, true)
	require.NoError(t, err)
	assert.False(t, resp.Collected)
	require.Len(t, resp.Recent, 1)
	assert.Equal(t, "t3_1", resp.Recent[0].SourceID)
}

func TestTrending_RejectsUnknownPeriod(t *testing.T) {
	svc := NewSentimentService(testAPIConfig(), &fakeQueryRepo{}, &fakeTargeted{}, testAPILogger(t))
	_, err := svc.Trending(context.Background(), "90d", 10)
	require.Error(t, err)
}
