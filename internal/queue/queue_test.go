package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-stock-sentiment/internal/entity"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_RejectsEmptyTickerSet(t *testing.T) {
	q := NewRedisMentionQueue(nil, Config{}, nil)

	_, err := q.Append(context.Background(), &entity.CandidateEvent{
		SourceID: "abc123",
		Title:    "no tickers here",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tickers")
}

func TestDecodeMessage_RoundTrip(t *testing.T) {
	event := entity.CandidateEvent{
		SourceID:      "t3_1abcd",
		SourceChannel: "wallstreetbets",
		OccurredAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Tickers:       []string{"GME", "TSLA"},
		Title:         "diamond hands",
		Body:          "buying TSLA and GME calls",
	}
	payload, err := json.Marshal(&event)
	require.NoError(t, err)

	q := &redisMentionQueue{cfg: Config{Stream: "candidate.posts"}}
	d, err := q.decodeMessage(redis.XMessage{
		ID:     "1700000000000-0",
		Values: map[string]interface{}{"payload": string(payload)},
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-0", d.ID)
	assert.EqualValues(t, 3, d.RetryCount)
	assert.Equal(t, event, d.Event)
}

func TestDecodeMessage_MissingPayloadField(t *testing.T) {
	q := &redisMentionQueue{cfg: Config{Stream: "candidate.posts"}}
	_, err := q.decodeMessage(redis.XMessage{
		ID:     "1700000000000-1",
		Values: map[string]interface{}{"json": "{}"},
	}, 0)
	require.Error(t, err)
}

func TestDecodeMessage_MalformedJSON(t *testing.T) {
	q := &redisMentionQueue{cfg: Config{Stream: "candidate.posts"}}
	_, err := q.decodeMessage(redis.XMessage{
		ID:     "1700000000000-2",
		Values: map[string]interface{}{"payload": "{not json"},
	}, 0)
	require.Error(t, err)
}
