package service

import (
	"context"
	"fmt"
	"time"

	"golang-trading-journal/internal/entity"
	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/journal/config"
	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/repository"
	"golang-trading-journal/pkg/logger"
	"golang-trading-journal/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

// PatternService runs the analysis engine over a user's journal history.
type PatternService interface {
	GetInsights(ctx context.Context, userID string, rangeDays int) ([]*dto.InsightResponse, error)
	GetAnalysis(ctx context.Context, userID string, rangeDays int) (*dto.AnalysisResponse, error)
	GetInsightHistory(ctx context.Context, userID string) ([]*dto.UserInsightResponse, error)
	GetCoachingNote(ctx context.Context, userID string) (*dto.CoachingNoteResponse, error)
}

// NewPatternService creates a pattern service. Live insight responses are
// cached per user and range to keep repeated dashboard loads cheap.
func NewPatternService(
	cfg *config.Config,
	engine *insight.Engine,
	entryRepo repository.EmotionEntryRepository,
	tradeRepo repository.TradeRepository,
	insightRepo repository.UserInsightRepository,
	noteRepo repository.CoachingNoteRepository,
	log *logger.Logger,
) PatternService {
	ttl := cfg.Insights.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &patternService{
		cfg:         cfg,
		engine:      engine,
		entryRepo:   entryRepo,
		tradeRepo:   tradeRepo,
		insightRepo: insightRepo,
		noteRepo:    noteRepo,
		cache:       gocache.New(ttl, 2*ttl),
		logger:      log,
	}
}

type patternService struct {
	cfg         *config.Config
	engine      *insight.Engine
	entryRepo   repository.EmotionEntryRepository
	tradeRepo   repository.TradeRepository
	insightRepo repository.UserInsightRepository
	noteRepo    repository.CoachingNoteRepository
	cache       *gocache.Cache
	logger      *logger.Logger
}

// GetInsights runs the full rule set over the user's history for the range.
func (s *patternService) GetInsights(ctx context.Context, userID string, rangeDays int) ([]*dto.InsightResponse, error) {
	rangeDays = s.clampRange(rangeDays)

	cacheKey := fmt.Sprintf("insights:%s:%d", userID, rangeDays)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]*dto.InsightResponse), nil
	}

	samples, trades, err := s.loadHistory(ctx, userID, rangeDays)
	if err != nil {
		return nil, err
	}

	insights := s.engine.GenerateInsights(userID, samples, trades)

	responses := make([]*dto.InsightResponse, 0, len(insights))
	for _, in := range insights {
		responses = append(responses, &dto.InsightResponse{
			ID:          in.ID,
			Type:        string(in.Type),
			Title:       in.Title,
			Description: in.Description,
			Confidence:  in.Confidence,
			Priority:    string(in.Priority),
			Actionable:  in.Actionable,
			CreatedAt:   in.CreatedAt,
		})
	}

	s.cache.Set(cacheKey, responses, gocache.DefaultExpiration)
	return responses, nil
}

// GetAnalysis returns the raw trend fit and per-level buckets for the range.
func (s *patternService) GetAnalysis(ctx context.Context, userID string, rangeDays int) (*dto.AnalysisResponse, error) {
	rangeDays = s.clampRange(rangeDays)

	samples, trades, err := s.loadHistory(ctx, userID, rangeDays)
	if err != nil {
		return nil, err
	}

	trend := s.engine.CalculateTrend(samples)
	buckets := s.engine.AnalyzeEmotionPerformance(trades)

	response := &dto.AnalysisResponse{
		Trend: dto.TrendAnalysisResponse{
			Direction:  string(trend.Direction),
			Slope:      trend.Slope,
			Intercept:  trend.Intercept,
			Confidence: trend.Confidence,
		},
		Buckets: make([]dto.EmotionPerformanceBucketResponse, 0, len(buckets)),
	}
	for _, b := range buckets {
		response.Buckets = append(response.Buckets, dto.EmotionPerformanceBucketResponse{
			EmotionLevel:  b.EmotionLevel,
			WinRate:       b.WinRate,
			TradeCount:    b.TradeCount,
			AverageProfit: b.AverageProfit,
			TradeIDs:      b.TradeIDs,
		})
	}
	return response, nil
}

// GetInsightHistory lists the user's persisted insights from past worker runs.
func (s *patternService) GetInsightHistory(ctx context.Context, userID string) ([]*dto.UserInsightResponse, error) {
	insights, err := s.insightRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var responses []*dto.UserInsightResponse
	for i := range insights {
		in := &insights[i]
		responses = append(responses, &dto.UserInsightResponse{
			ID:              in.ID,
			InsightType:     in.InsightType,
			Title:           in.Title,
			Description:     in.Description,
			ConfidenceScore: in.ConfidenceScore,
			Priority:        in.Priority,
			Actionable:      in.Actionable,
			IsActive:        in.IsActive,
			CreatedAt:       in.CreatedAt,
		})
	}
	return responses, nil
}

// GetCoachingNote returns the most recent AI coaching note, if any.
func (s *patternService) GetCoachingNote(ctx context.Context, userID string) (*dto.CoachingNoteResponse, error) {
	note, err := s.noteRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CoachingNoteResponse{
		ID:        note.ID,
		Note:      note.Note,
		Model:     note.Model,
		CreatedAt: note.CreatedAt,
	}, nil
}

// loadHistory bounds the engine input by date range; the engine itself does no
// pagination.
func (s *patternService) loadHistory(ctx context.Context, userID string, rangeDays int) ([]insight.EmotionSample, []insight.TradeRecord, error) {
	to := time.Now().UTC()
	from := utils.DaysAgo(rangeDays)

	entries, err := s.entryRepo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("Failed to load emotion entries", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, nil, err
	}

	trades, err := s.tradeRepo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("Failed to load trades", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, nil, err
	}

	return MapEntriesToSamples(entries), MapTradesToRecords(trades), nil
}

func (s *patternService) clampRange(rangeDays int) int {
	if rangeDays <= 0 {
		rangeDays = s.cfg.Insights.DefaultRangeDays
	}
	if rangeDays <= 0 {
		rangeDays = 90
	}
	if max := s.cfg.Insights.MaxRangeDays; max > 0 && rangeDays > max {
		rangeDays = max
	}
	return rangeDays
}

// MapEntriesToSamples converts stored check-ins to engine input.
func MapEntriesToSamples(entries []entity.EmotionEntry) []insight.EmotionSample {
	samples := make([]insight.EmotionSample, 0, len(entries))
	for _, e := range entries {
		sample := insight.EmotionSample{
			Timestamp: e.RecordedAt,
			Level:     e.Level,
			UserID:    e.UserID,
			Notes:     e.Notes,
		}
		if e.TradeID != nil {
			sample.TradeID = *e.TradeID
		}
		samples = append(samples, sample)
	}
	return samples
}

// MapTradesToRecords converts stored trades to engine input. Profit moves from
// decimal to float64 at this boundary; the engine contract is plain numeric.
func MapTradesToRecords(trades []entity.Trade) []insight.TradeRecord {
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
