package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-trading-journal/internal/entity"
	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/worker/config"
	"golang-trading-journal/internal/worker/dto"
	"golang-trading-journal/internal/worker/repository"
	"golang-trading-journal/pkg/common"
	"golang-trading-journal/pkg/logger"
	"golang-trading-journal/pkg/telegram"
	"golang-trading-journal/pkg/utils"

	"github.com/redis/go-redis/v9"
)

type InsightGeneratorService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
	Generate(ctx context.Context, userID string, rangeDays int) error
}

type insightGeneratorService struct {
	cfg              *config.Config
	log              *logger.Logger
	redisClient      *redis.Client
	engine           *insight.Engine
	historyRepo      repository.HistoryRepository
	userInsightRepo  repository.UserInsightRepository
	coachingNoteRepo repository.CoachingNoteRepository
	aiRepo           repository.AIRepository
	telegramBot      telegram.Notifier
}

func NewInsightGeneratorService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	engine *insight.Engine,
	historyRepo repository.HistoryRepository,
	userInsightRepo repository.UserInsightRepository,
	coachingNoteRepo repository.CoachingNoteRepository,
	aiRepo repository.AIRepository,
	telegramBot telegram.Notifier) InsightGeneratorService {
	return &insightGeneratorService{
		cfg:              cfg,
		log:              log,
		redisClient:      redisClient,
		engine:           engine,
		historyRepo:      historyRepo,
		userInsightRepo:  userInsightRepo,
		coachingNoteRepo: coachingNoteRepo,
		aiRepo:           aiRepo,
		telegramBot:      telegramBot,
	}
}

func (s *insightGeneratorService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamInsightGenerate, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block for 2 seconds to allow graceful shutdown
	}).Result()
	if err != nil {
		// Ignore context cancellation and timeout errors, as they are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	streamData, ok := s.decodeTask(message)
	if !ok {
		return
	}

	s.log.Debug("Processing insight generation task", logger.StringField("user_id", streamData.UserID), logger.IntField("range_days", streamData.RangeDays))

	if err := s.Generate(ctx, streamData.UserID, streamData.RangeDays); err != nil {
		s.log.Error("Failed to generate insights", logger.ErrorField(err), logger.Field("message_id", message.ID), logger.StringField("user_id", streamData.UserID))
		return
	}
	if err := s.AckNDel(ctx, common.RedisStreamInsightGenerate, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete insight generation task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Insight generation task processed successfully", logger.StringField("user_id", streamData.UserID))
}

// Generate rebuilds the user's active insight set from their journal history
// over the given window and fans out the downstream side effects.
func (s *insightGeneratorService) Generate(ctx context.Context, userID string, rangeDays int) error {
	if rangeDays <= 0 {
		rangeDays = s.cfg.Worker.DefaultRangeDays
	}

	to := time.Now().UTC()
	from := utils.DaysAgo(rangeDays)

	entries, err := s.historyRepo.FindEmotionEntries(ctx, userID, from, to)
	if err != nil {
		s.log.Error("Failed to load emotion entries", logger.ErrorField(err), logger.StringField("user_id", userID))
		return err
	}

	trades, err := s.historyRepo.FindTrades(ctx, userID, from, to)
	if err != nil {
		s.log.Error("Failed to load trades", logger.ErrorField(err), logger.StringField("user_id", userID))
		return err
	}

	samples := mapEntriesToSamples(entries)
	records := mapTradesToRecords(trades)

	insights := s.engine.GenerateInsights(userID, samples, records)

	rows := make([]entity.UserInsight, 0, len(insights))
	for _, in := range insights {
		data, err := json.Marshal(in)
		if err != nil {
			s.log.Error("Failed to marshal insight", logger.ErrorField(err), logger.StringField("user_id", userID))
			return err
		}
		rows = append(rows, entity.UserInsight{
			UserID:          userID,
			InsightType:     string(in.Type),
			Title:           in.Title,
			Description:     in.Description,
			ConfidenceScore: in.Confidence,
			Priority:        string(in.Priority),
			Actionable:      in.Actionable,
			IsActive:        true,
			Data:            data,
		})
	}

	if err := s.userInsightRepo.ReplaceForUser(ctx, userID, rows); err != nil {
		s.log.Error("Failed to replace user insights", logger.ErrorField(err), logger.StringField("user_id", userID))
		return err
	}

	s.log.Info("Generated insights",
		logger.StringField("user_id", userID),
		logger.IntField("insight_count", len(insights)),
		logger.IntField("emotion_entries", len(entries)),
		logger.IntField("trades", len(trades)),
	)

	// Alerts and coaching notes are best effort. A failure here must not fail
	// the task, or the retry path would regenerate identical insights forever.
	s.notifyHighPriority(userID, insights)
	s.writeCoachingNote(ctx, userID, insights)

	return nil
}

func (s *insightGeneratorService) notifyHighPriority(userID string, insights []insight.Insight) {
	hasHigh := false
	for _, in := range insights {
		if in.Priority == insight.PriorityHigh {
			hasHigh = true
			break
		}
	}
	if !hasHigh {
		return
	}
	if err := s.telegramBot.SendMessage(telegram.FormatInsightAlert(userID, insights)); err != nil {
		s.log.Error("Failed to send insight alert", logger.ErrorField(err), logger.StringField("user_id", userID))
	}
}

func (s *insightGeneratorService) writeCoachingNote(ctx context.Context, userID string, insights []insight.Insight) {
	if !s.cfg.Gemini.Enabled || len(insights) == 0 {
		return
	}

	result, err := s.aiRepo.GenerateCoachingNote(ctx, userID, insights)
	if err != nil {
		s.log.Error("Failed to generate coaching note", logger.ErrorField(err), logger.StringField("user_id", userID))
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.log.Error("Failed to marshal coaching note", logger.ErrorField(err), logger.StringField("user_id", userID))
		return
	}

	note := &entity.CoachingNote{
		UserID: userID,
		Note:   result.Note,
		Model:  s.cfg.Gemini.Model,
		Data:   data,
	}
	if err := s.coachingNoteRepo.Create(ctx, note); err != nil {
		s.log.Error("Failed to store coaching note", logger.ErrorField(err), logger.StringField("user_id", userID))
	}
}

func (s *insightGeneratorService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge insight generation task", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		s.log.Error("Failed to delete insight generation task", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	return nil
}

func (s *insightGeneratorService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamInsightGenerate,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Worker.RedisStreamInsightMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to claim insight generation task on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry no pending messages found", logger.StringField("stream", common.RedisStreamInsightGenerate))
		return
	}

	s.log.Info("Found pending messages", logger.StringField("stream", common.RedisStreamInsightGenerate))

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamInsightGenerate,
		Group:  common.RedisStreamGroup,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}

	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamInsightGenerate),
			logger.StringField("message_id", msgs[0].ID))
		return
	}

	msg := msgs[0]
	streamData, ok := s.decodeTask(msg)
	if !ok {
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Worker.RedisStreamInsightMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamInsightGenerate),
			logger.StringField("message_id", msg.ID),
			logger.StringField("user_id", streamData.UserID),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Worker.RedisStreamInsightMaxRetry),
		)
		msgTelegram := telegram.FormatErrorAlertMessage(time.Now(), fmt.Sprintf("Insight generation retry count exceeded for user %s", streamData.UserID))
		if err := s.telegramBot.SendMessage(msgTelegram); err != nil {
			s.log.Error("Failed to send telegram message retry exceeded", logger.ErrorField(err), logger.StringField("user_id", streamData.UserID))
		}
		if err := s.AckNDel(ctx, common.RedisStreamInsightGenerate, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge and delete insight generation task", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		}
		return
	}

	if err := s.Generate(ctx, streamData.UserID, streamData.RangeDays); err != nil {
		s.log.Error("Failed to generate insights", logger.ErrorField(err), logger.Field("message_id", msg.ID), logger.StringField("user_id", streamData.UserID))
		return
	}

	if err := s.AckNDel(ctx, common.RedisStreamInsightGenerate, msg.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete insight generation task", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return
	}
	s.log.Info("Retry insight generation task processed successfully", logger.StringField("user_id", streamData.UserID))
}

// decodeTask extracts the JSON payload field from a stream message.
func (s *insightGeneratorService) decodeTask(msg redis.XMessage) (dto.StreamDataInsightGenerate, bool) {
	var streamData dto.StreamDataInsightGenerate

	taskData, ok := msg.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", msg.ID))
		return streamData, false
	}
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return streamData, false
	}
	return streamData, true
}

func mapEntriesToSamples(entries []entity.EmotionEntry) []insight.EmotionSample {
	samples := make([]insight.EmotionSample, 0, len(entries))
	for _, e := range entries {
		tradeID := ""
		if e.TradeID != nil {
			tradeID = *e.TradeID
		}
		samples = append(samples, insight.EmotionSample{
			Timestamp: e.RecordedAt,
			Level:     e.Level,
			UserID:    e.UserID,
			TradeID:   tradeID,
			Notes:     e.Notes,
		})
	}
	return samples
}

func mapTradesToRecords(trades []entity.Trade) []insight.TradeRecord {
	records := make([]insight.TradeRecord, 0, len(trades))
	for _, t := range trades {
		records = append(records, insight.TradeRecord{
			ID:               t.ID,
			Timestamp:        t.ExecutedAt,
			Symbol:           t.Symbol,
			Profit:           t.Profit.InexactFloat64(),
			PreTradeEmotion:  t.PreTradeEmotion,
			PostTradeEmotion: t.PostTradeEmotion,
		})
	}
	return records
}
