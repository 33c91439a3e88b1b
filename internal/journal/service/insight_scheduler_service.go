package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-trading-journal/internal/journal/config"
	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/repository"
	"golang-trading-journal/pkg/common"
	"golang-trading-journal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// InsightSchedulerService periodically enqueues insight regeneration tasks for
// users with recent journal activity.
type InsightSchedulerService interface {
	Start(ctx context.Context)
	EnqueueUser(ctx context.Context, userID string, rangeDays int) error
}

// NewInsightSchedulerService creates a scheduler from the configured cron
// expression.
func NewInsightSchedulerService(
	cfg *config.Config,
	entryRepo repository.EmotionEntryRepository,
	tradeRepo repository.TradeRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) (InsightSchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Insights.ScheduleCron)
	if err != nil {
		return nil, fmt.Errorf("invalid insight schedule cron %q: %w", cfg.Insights.ScheduleCron, err)
	}

	pollingInterval := cfg.Insights.PollingInterval
	if pollingInterval <= 0 {
		pollingInterval = time.Minute
	}

	return &insightSchedulerService{
		cfg:             cfg,
		entryRepo:       entryRepo,
		tradeRepo:       tradeRepo,
		redisClient:     redisClient,
		logger:          log,
		schedule:        schedule,
		pollingInterval: pollingInterval,
		nextRun:         schedule.Next(time.Now()),
	}, nil
}

type insightSchedulerService struct {
	cfg             *config.Config
	entryRepo       repository.EmotionEntryRepository
	tradeRepo       repository.TradeRepository
	redisClient     *redis.Client
	logger          *logger.Logger
	schedule        cron.Schedule
	pollingInterval time.Duration
	nextRun         time.Time
}

// Start begins the polling loop and blocks until ctx is canceled.
func (s *insightSchedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	s.logger.Info("Insight scheduler started",
		logger.StringField("cron", s.cfg.Insights.ScheduleCron),
		logger.Field("next_run", s.nextRun))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Insight scheduler stopping")
			return
		case <-ticker.C:
			now := time.Now()
			if now.Before(s.nextRun) {
				continue
			}
			s.processDueRun(ctx)
			s.nextRun = s.schedule.Next(now)
		}
	}
}

// processDueRun enqueues one task per user with recent journal activity.
func (s *insightSchedulerService) processDueRun(ctx context.Context) {
	lookback := s.cfg.Insights.ActivityLookback
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	since := time.Now().Add(-lookback)

	userIDs, err := s.activeUserIDs(ctx, since)
	if err != nil {
		s.logger.Error("Failed to find active users", logger.ErrorField(err))
		return
	}

	for _, userID := range userIDs {
		if err := s.EnqueueUser(ctx, userID, s.cfg.Insights.DefaultRangeDays); err != nil {
			s.logger.Error("Failed to enqueue insight task", logger.ErrorField(err), logger.StringField("user_id", userID))
		}
	}

	s.logger.Info("Insight tasks enqueued", logger.IntField("users", len(userIDs)))
}

// EnqueueUser publishes one insight generation task onto the Redis stream.
func (s *insightSchedulerService) EnqueueUser(ctx context.Context, userID string, rangeDays int) error {
	payload, err := json.Marshal(dto.InsightTaskPayload{
		UserID:    userID,
		RangeDays: rangeDays,
	})
	if err != nil {
		return err
	}

	return s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamInsightGenerate,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err()
}

// activeUserIDs merges users who checked in or logged trades since the instant.
func (s *insightSchedulerService) activeUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	fromEntries, err := s.entryRepo.FindActiveUserIDs(ctx, since)
	if err != nil {
		return nil, err
	}
	fromTrades, err := s.tradeRepo.FindActiveUserIDs(ctx, since)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(fromEntries)+len(fromTrades))
	var merged []string
	for _, id := range append(fromEntries, fromTrades...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged, nil
}
