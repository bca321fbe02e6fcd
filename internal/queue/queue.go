package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-stock-sentiment/internal/entity"
	"go-stock-sentiment/pkg/common"
	"go-stock-sentiment/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Delivery is one claimed queue entry: the decoded event plus the opaque
// stream entry id and, for reclaimed entries, the delivery attempt count.
type Delivery struct {
	ID         string
	RetryCount int64
	Event      entity.CandidateEvent
}

// MentionQueue is the durable, at-least-once log that carries candidate
// events from the producers to the sentiment worker. One shared consumer
// group; entries stay pending until acked.
type MentionQueue interface {
	// Append serializes the event onto the stream and returns the entry id.
	// The event must carry at least one ticker.
	Append(ctx context.Context, event *entity.CandidateEvent) (string, error)
	// ReadOne claims the next undelivered entry for the group, blocking up
	// to block. Returns (nil, nil) when the queue is idle.
	ReadOne(ctx context.Context, block time.Duration) (*Delivery, error)
	// Ack marks the entry processed for the group and removes it from the
	// stream. Idempotent.
	Ack(ctx context.Context, entryID string) error
	// EnsureGroup creates the consumer group at the log's start if it does
	// not exist yet.
	EnsureGroup(ctx context.Context) error
	// ClaimStale reclaims one entry that has been pending longer than
	// minIdle, reporting how many times it has been delivered. Returns
	// (nil, nil) when nothing is stale.
	ClaimStale(ctx context.Context, minIdle time.Duration) (*Delivery, error)
	// Park moves a poison entry to the failed stream and acks it on the
	// main one, ending its redelivery cycle.
	Park(ctx context.Context, d *Delivery) error
}

// Config holds the stream coordinates for a redis-backed mention queue.
type Config struct {
	Stream       string
	Group        string
	Consumer     string
	StreamMaxLen int64
}

type redisMentionQueue struct {
	client *redis.Client
	cfg    Config
	logger *logger.Logger
}

// NewRedisMentionQueue creates a MentionQueue backed by a Redis stream.
func NewRedisMentionQueue(client *redis.Client, cfg Config, log *logger.Logger) MentionQueue {
	if cfg.Stream == "" {
		cfg.Stream = common.RedisStreamCandidatePosts
	}
	if cfg.Group == "" {
		cfg.Group = common.RedisStreamGroup
	}
	if cfg.Consumer == "" {
		cfg.Consumer = common.RedisStreamConsumer
	}
	return &redisMentionQueue{client: client, cfg: cfg, logger: log}
}

func (q *redisMentionQueue) Append(ctx context.Context, event *entity.CandidateEvent) (string, error) {
	if len(event.Tickers) == 0 {
		return "", fmt.Errorf("candidate event %s has no tickers", event.SourceID)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidate event: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.cfg.Stream,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: q.cfg.StreamMaxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %s: %w", q.cfg.Stream, err)
	}
	return id, nil
}

func (q *redisMentionQueue) ReadOne(ctx context.Context, block time.Duration) (*Delivery, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.cfg.Group,
		Consumer: q.cfg.Consumer,
		Streams:  []string{q.cfg.Stream, ">"}, // ">" means only new messages
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		// Idle timeouts and shutdown cancellations are normal conditions.
		if err == redis.Nil || err == context.Canceled || err == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream %s: %w", q.cfg.Stream, err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	return q.decodeMessage(streams[0].Messages[0], 0)
}

func (q *redisMentionQueue) Ack(ctx context.Context, entryID string) error {
	if err := q.client.XAck(ctx, q.cfg.Stream, q.cfg.Group, entryID).Err(); err != nil {
		return fmt.Errorf("failed to ack entry %s: %w", entryID, err)
	}
	if err := q.client.XDel(ctx, q.cfg.Stream, entryID).Err(); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	return nil
}

func (q *redisMentionQueue) EnsureGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.cfg.Stream, q.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", q.cfg.Group, err)
	}
	return nil
}

func (q *redisMentionQueue) ClaimStale(ctx context.Context, minIdle time.Duration) (*Delivery, error) {
	msgs, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.cfg.Stream,
		Group:    q.cfg.Group,
		Consumer: q.cfg.Consumer + "-retry",
		MinIdle:  minIdle,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		if err == redis.Nil || err == context.Canceled || err == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim stale entry: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	pendingInfo, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.cfg.Stream,
		Group:  q.cfg.Group,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending info for %s: %w", msgs[0].ID, err)
	}

	var retryCount int64
	if len(pendingInfo) > 0 {
		retryCount = pendingInfo[0].RetryCount
	}

	return q.decodeMessage(msgs[0], retryCount)
}

func (q *redisMentionQueue) Park(ctx context.Context, d *Delivery) error {
	payload, err := json.Marshal(d.Event)
	if err != nil {
		return fmt.Errorf("failed to marshal parked event: %w", err)
	}

	failedStream := q.cfg.Stream + common.RedisStreamFailedSuffix
	if err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: failedStream,
		Values: map[string]interface{}{
			"payload":  string(payload),
			"entry_id": d.ID,
			"retries":  d.RetryCount,
		},
	}).Err(); err != nil {
		return fmt.Errorf("failed to park entry %s: %w", d.ID, err)
	}

	q.logger.Warn("Parked poison entry on failed stream",
		logger.StringField("stream", failedStream),
		logger.StringField("entry_id", d.ID),
		logger.Field("retries", d.RetryCount))

	return q.Ack(ctx, d.ID)
}

func (q *redisMentionQueue) decodeMessage(msg redis.XMessage, retryCount int64) (*Delivery, error) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		return nil, fmt.Errorf("field 'payload' not found or not a string in entry %s", msg.ID)
	}

	var event entity.CandidateEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry %s: %w", msg.ID, err)
	}

	return &Delivery{ID: msg.ID, RetryCount: retryCount, Event: event}, nil
}
