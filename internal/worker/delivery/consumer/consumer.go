package consumer

import (
	"context"
	"sync"
	"time"

	"go-stock-sentiment/internal/queue"
	workerconfig "go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/service"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/utils"
)

// RedisConsumer manages the consumption of candidate events from the
// mention queue.
type RedisConsumer struct {
	cfg             *workerconfig.Config
	mentions        queue.MentionQueue
	consumerService service.ConsumerService
	logger          *logger.Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *workerconfig.Config,
	mentions queue.MentionQueue,
	consumerService service.ConsumerService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:             cfg,
		mentions:        mentions,
		consumerService: consumerService,
		logger:          log,
		stopChan:        make(chan struct{}),
	}
}

// Start creates the consumer group and begins the processing loops.
func (c *RedisConsumer) Start(ctx context.Context) error {
	if err := c.mentions.EnsureGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("Redis consumer started")
	c.registerStreamHandler(ctx, c.consumerService.ProcessBatch, c.cfg.Worker.ProcessTimeout)
	c.registerTickerHandler(ctx, c.consumerService.ProcessRetries, c.cfg.Worker.RetryInterval, c.cfg.Worker.ProcessTimeout, "sentiment-retry")
	return nil
}

func (c *RedisConsumer) registerStreamHandler(ctx context.Context, fn func(ctx context.Context), timeout time.Duration) {
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

func (c *RedisConsumer) registerTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.Field("name", name),
		logger.Field("interval", interval))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.Field("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.Field("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
