package consumer

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang-trading-journal/internal/worker/config"
	"golang-trading-journal/internal/worker/service"
	"golang-trading-journal/pkg/common"
	"golang-trading-journal/pkg/logger"
	"golang-trading-journal/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages the consumption of insight tasks from a Redis stream.
type RedisConsumer struct {
	cfg              *config.Config
	redisClient      *redis.Client
	insightGenerator service.InsightGeneratorService
	logger           *logger.Logger
	stopChan         chan struct{}
	wg               sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	insightGenerator service.InsightGeneratorService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:              cfg,
		redisClient:      redisClient,
		insightGenerator: insightGenerator,
		logger:           log,
		stopChan:         make(chan struct{}),
	}
}

// EnsureGroup creates the consumer group if it does not exist yet.
func (c *RedisConsumer) EnsureGroup(ctx context.Context) error {
	err := c.redisClient.XGroupCreateMkStream(ctx, common.RedisStreamInsightGenerate, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.insightGenerator.ProcessTask, common.RedisStreamInsightGenerate, c.cfg.Worker.RedisStreamInsightTimeout)

	//handle retry
	c.RegisterTickerHandler(ctx, c.insightGenerator.ProcessRetries, c.cfg.Worker.RedisStreamInsightRetryInterval, c.cfg.Worker.RedisStreamInsightMaxIdleDuration, common.RedisStreamInsightGenerate+"-retry")
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
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

func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.Field("name", name),
		logger.Field("interval", interval),
		logger.Field("timeout", timeout))
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
