package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/internal/queue"
	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/dto"
	"go-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMentionQueue struct {
	mu         sync.Mutex
	deliveries []*queue.Delivery
	stale      []*queue.Delivery
	acked      []string
	parked     []string
}

func (f *fakeMentionQueue) Append(context.Context, *entity.CandidateEvent) (string, error) {
	return "", fmt.Errorf("not a producer")
}

func (f *fakeMentionQueue) ReadOne(context.Context, time.Duration) (*queue.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.deliveries) == 0 {
		return nil, nil
	}
	d := f.deliveries[0]
	f.deliveries = f.deliveries[1:]
	return d, nil
}

func (f *fakeMentionQueue) Ack(_ context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, entryID)
	return nil
}

func (f *fakeMentionQueue) EnsureGroup(context.Context) error { return nil }

func (f *fakeMentionQueue) ClaimStale(context.Context, time.Duration) (*queue.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stale) == 0 {
		return nil, nil
	}
	d := f.stale[0]
	f.stale = f.stale[1:]
	return d, nil
}

func (f *fakeMentionQueue) Park(_ context.Context, d *queue.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parked = append(f.parked, d.ID)
	return nil
}

type fakeClassifier struct {
	score    dto.SentimentScore
	scoreErr error
}

func (f *fakeClassifier) ModelName() string { return "fake-model" }

func (f *fakeClassifier) Score(context.Context, string) (*dto.SentimentScore, error) {
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	s := f.score
	return &s, nil
}

type fakeEventRepo struct {
	mu        sync.Mutex
	rows      []entity.SentimentEvent
	createErr map[string]error // keyed by ticker
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.SentimentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[event.Ticker]; err != nil {
		return err
	}
	f.rows = append(f.rows, *event)
	return nil
}

func (f *fakeEventRepo) ExistsForSource(_ context.Context, sourceID, ticker string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.SourceID == sourceID && row.Ticker == ticker {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func testWorkerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testWorkerConfig() *workerconfig.Config {
	return &workerconfig.Config{
		Worker: workerconfig.Worker{
			ReadBlockTimeout: time.Millisecond,
			MaxIdleDuration:  time.Minute,
			MaxRetry:         3,
		},
	}
}

func testDelivery(id string, tickers ...string) *queue.Delivery {
	return &queue.Delivery{
		ID: id,
		Event: entity.CandidateEvent{
			SourceID:      "t3_abc",
			SourceChannel: "wallstreetbets",
			OccurredAt:    time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC),
			Tickers:       tickers,
			Title:         "earnings play",
			Body:          "loading up before the call",
		},
	}
}

func TestProcessBatch_OneRowPerTicker(t *testing.T) {
	q := &fakeMentionQueue{deliveries: []*queue.Delivery{testDelivery("1-0", "GME", "AMC")}}
	repo := &fakeEventRepo{}
	cls := &fakeClassifier{score: dto.SentimentScore{Score: 0.8, PosProb: 0.9, NegProb: 0.05}}

	svc := NewConsumerService(testWorkerConfig(), q, cls, repo, &fakeNotifier{}, testWorkerLogger(t))
	svc.ProcessBatch(context.Background())

	require.Len(t, repo.rows, 2)
	for _, row := range repo.rows {
		assert.Equal(t, "t3_abc", row.SourceID)
		assert.Equal(t, "fake-model", row.ModelName)
		assert.Equal(t, 0.8, row.Score)
		assert.Equal(t, 0.9, row.PosProb)
		assert.Equal(t, 0.05, row.NegProb)
	}
	assert.Equal(t, "GME", repo.rows[0].Ticker)
	assert.Equal(t, "AMC", repo.rows[1].Ticker)
	assert.Equal(t, []string{"1-0"}, q.acked)
}

func TestProcessBatch_ClassifierFailureRecordsNeutral(t *testing.T) {
	q := &fakeMentionQueue{deliveries: []*queue.Delivery{testDelivery("1-0", "TSLA")}}
	repo := &fakeEventRepo{}
	cls := &fakeClassifier{scoreErr: fmt.Errorf("model unavailable")}

	svc := NewConsumerService(testWorkerConfig(), q, cls, repo, &fakeNotifier{}, testWorkerLogger(t))
	svc.ProcessBatch(context.Background())

	require.Len(t, repo.rows, 1)
	assert.Equal(t, 0.0, repo.rows[0].Score)
	assert.Equal(t, 0.33, repo.rows[0].PosProb)
	assert.Equal(t, 0.33, repo.rows[0].NegProb)
	assert.Equal(t, []string{"1-0"}, q.acked, "neutral fallback still acks the entry")
}

func TestProcessBatch_PartialWriteFailureLeavesPending(t *testing.T) {
	q := &fakeMentionQueue{deliveries: []*queue.Delivery{testDelivery("1-0", "GME", "AMC")}}
	repo := &fakeEventRepo{createErr: map[string]error{"AMC": fmt.Errorf("db down")}}
	cls := &fakeClassifier{score: dto.SentimentScore{Score: 0.5, PosProb: 0.6, NegProb: 0.2}}

	svc := NewConsumerService(testWorkerConfig(), q, cls, repo, &fakeNotifier{}, testWorkerLogger(t))
	svc.ProcessBatch(context.Background())

	require.Len(t, repo.rows, 1, "the write that succeeded is kept")
	assert.Empty(t, q.acked, "entry stays pending until every ticker row landed")
}

func TestProcessRetries_ReprocessingSkipsExistingRows(t *testing.T) {
	d := testDelivery("1-0", "GME", "AMC")
	d.RetryCount = 1
	q := &fakeMentionQueue{stale: []*queue.Delivery{d}}
	repo := &fakeEventRepo{rows: []entity.SentimentEvent{
		{SourceID: "t3_abc", Ticker: "GME", Score: 0.5},
	}}
	cls := &fakeClassifier{score: dto.SentimentScore{Score: 0.5, PosProb: 0.6, NegProb: 0.2}}

	svc := NewConsumerService(testWorkerConfig(), q, cls, repo, &fakeNotifier{}, testWorkerLogger(t))
	svc.ProcessRetries(context.Background())

	require.Len(t, repo.rows, 2, "only the missing ticker row is written")
	assert.Equal(t, "AMC", repo.rows[1].Ticker)
	assert.Equal(t, []string{"1-0"}, q.acked)
}

func TestProcessRetries_ParksAfterMaxRetries(t *testing.T) {
	d := testDelivery("1-0", "GME")
	d.RetryCount = 3
	q := &fakeMentionQueue{stale: []*queue.Delivery{d}}
	repo := &fakeEventRepo{}
	notifier := &fakeNotifier{}

	svc := NewConsumerService(testWorkerConfig(), q, &fakeClassifier{}, repo, notifier, testWorkerLogger(t))
	svc.ProcessRetries(context.Background())

	assert.Equal(t, []string{"1-0"}, q.parked)
	assert.Empty(t, repo.rows, "a parked entry is not scored again")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "1-0")
	assert.Contains(t, notifier.messages[0], "t3_abc")
}

func TestProcessBatch_IdleQueueIsANoop(t *testing.T) {
	q := &fakeMentionQueue{}
	repo := &fakeEventRepo{}

	svc := NewConsumerService(testWorkerConfig(), q, &fakeClassifier{}, repo, &fakeNotifier{}, testWorkerLogger(t))
	svc.ProcessBatch(context.Background())

	assert.Empty(t, repo.rows)
	assert.Empty(t, q.acked)
}
