package service

import (
	"context"
	"testing"
	"time"

	"golang-trading-journal/internal/entity"
	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/journal/config"
	"golang-trading-journal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeEmotionEntryRepository struct {
	entries []entity.EmotionEntry
	calls   int
}

func (f *fakeEmotionEntryRepository) Create(ctx context.Context, entry *entity.EmotionEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeEmotionEntryRepository) FindByID(ctx context.Context, userID string, id int64) (*entity.EmotionEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].UserID == userID {
			return &f.entries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEmotionEntryRepository) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.EmotionEntry, error) {
	f.calls++
	var out []entity.EmotionEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmotionEntryRepository) FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeEmotionEntryRepository) Delete(ctx context.Context, userID string, id int64) error {
	return nil
}

type fakeTradeRepository struct {
	trades []entity.Trade
}

func (f *fakeTradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	f.trades = append(f.trades, *trade)
	return nil
}

func (f *fakeTradeRepository) FindByID(ctx context.Context, userID, id string) (*entity.Trade, error) {
	return nil, nil
}

func (f *fakeTradeRepository) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Trade, error) {
	var out []entity.Trade
	for _, t := range f.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTradeRepository) FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeTradeRepository) Delete(ctx context.Context, userID, id string) error {
	return nil
}

type fakeUserInsightRepository struct {
	active []entity.UserInsight
}

func (f *fakeUserInsightRepository) ReplaceForUser(ctx context.Context, userID string, insights []entity.UserInsight) error {
	f.active = insights
	return nil
}

func (f *fakeUserInsightRepository) FindActiveByUser(ctx context.Context, userID string) ([]entity.UserInsight, error) {
	return f.active, nil
}

type fakeCoachingNoteRepository struct {
	latest *entity.CoachingNote
}

func (f *fakeCoachingNoteRepository) Create(ctx context.Context, note *entity.CoachingNote) error {
	f.latest = note
	return nil
}

func (f *fakeCoachingNoteRepository) FindLatestByUser(ctx context.Context, userID string) (*entity.CoachingNote, error) {
	if f.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.latest, nil
}

func newTestPatternService(entryRepo *fakeEmotionEntryRepository, tradeRepo *fakeTradeRepository, insightRepo *fakeUserInsightRepository) PatternService {
	cfg := &config.Config{}
	cfg.Insights.DefaultRangeDays = 90
	cfg.Insights.MaxRangeDays = 365
	cfg.Insights.CacheTTL = time.Minute

	log := &logger.Logger{Logger: zap.NewNop()}
	return NewPatternService(cfg, insight.NewEngine(), entryRepo, tradeRepo, insightRepo, &fakeCoachingNoteRepository{}, log)
}

func floatPtr(v float64) *float64 { return &v }

func TestPatternService_GetInsights_SweetSpot(t *testing.T) {
	entryRepo := &fakeEmotionEntryRepository{}
	tradeRepo := &fakeTradeRepository{}

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		tradeRepo.trades = append(tradeRepo.trades, entity.Trade{
			ID:              "t" + string(rune('1'+i)),
			UserID:          "user-1",
			Symbol:          "AAPL",
			Profit:          decimal.NewFromInt(100),
			PreTradeEmotion: floatPtr(8),
			ExecutedAt:      now.AddDate(0, 0, -i-1),
		})
	}

	svc := newTestPatternService(entryRepo, tradeRepo, &fakeUserInsightRepository{})

	insights, err := svc.GetInsights(context.Background(), "user-1", 30)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	assert.Equal(t, "Emotional Sweet Spot Detected", insights[0].Title)
	assert.Equal(t, "performance_correlation", insights[0].Type)
}

func TestPatternService_GetInsights_CachesPerUserAndRange(t *testing.T) {
	entryRepo := &fakeEmotionEntryRepository{}
	tradeRepo := &fakeTradeRepository{}
	svc := newTestPatternService(entryRepo, tradeRepo, &fakeUserInsightRepository{})

	_, err := svc.GetInsights(context.Background(), "user-1", 30)
	require.NoError(t, err)
	_, err = svc.GetInsights(context.Background(), "user-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, entryRepo.calls, "second call with same range should hit the cache")

	_, err = svc.GetInsights(context.Background(), "user-1", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, entryRepo.calls, "different range is a different cache key")
}

func TestPatternService_GetAnalysis(t *testing.T) {
	entryRepo := &fakeEmotionEntryRepository{}
	tradeRepo := &fakeTradeRepository{}

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		entryRepo.entries = append(entryRepo.entries, entity.EmotionEntry{
			ID:         int64(i + 1),
			UserID:     "user-1",
			Level:      float64(4 + i),
			RecordedAt: now.AddDate(0, 0, i-10),
		})
	}
	tradeRepo.trades = append(tradeRepo.trades, entity.Trade{
		ID:              "t1",
		UserID:          "user-1",
		Symbol:          "MSFT",
		Profit:          decimal.NewFromInt(-50),
		PreTradeEmotion: floatPtr(3),
		ExecutedAt:      now.AddDate(0, 0, -2),
	})

	svc := newTestPatternService(entryRepo, tradeRepo, &fakeUserInsightRepository{})

	analysis, err := svc.GetAnalysis(context.Background(), "user-1", 0)
	require.NoError(t, err)

	assert.Equal(t, "improving", analysis.Trend.Direction)
	assert.InDelta(t, 1.0, analysis.Trend.Slope, 1e-9)
	require.Len(t, analysis.Buckets, 1)
	assert.Equal(t, 3, analysis.Buckets[0].EmotionLevel)
	assert.Equal(t, 1, analysis.Buckets[0].TradeCount)
	assert.Equal(t, 0.0, analysis.Buckets[0].WinRate)
}

func TestPatternService_GetInsightHistory(t *testing.T) {
	insightRepo := &fakeUserInsightRepository{
		active: []entity.UserInsight{
			{
				ID:              1,
				UserID:          "user-1",
				InsightType:     "trend",
				Title:           "Emotional Trend: Declining",
				ConfidenceScore: 92,
				Priority:        "high",
				Actionable:      true,
				IsActive:        true,
			},
		},
	}
	svc := newTestPatternService(&fakeEmotionEntryRepository{}, &fakeTradeRepository{}, insightRepo)

	history, err := svc.GetInsightHistory(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "trend", history[0].InsightType)
	assert.True(t, history[0].IsActive)
}

func TestPatternService_GetCoachingNote(t *testing.T) {
	noteRepo := &fakeCoachingNoteRepository{}
	cfg := &config.Config{}
	cfg.Insights.DefaultRangeDays = 90
	log := &logger.Logger{Logger: zap.NewNop()}
	svc := NewPatternService(cfg, insight.NewEngine(), &fakeEmotionEntryRepository{}, &fakeTradeRepository{}, &fakeUserInsightRepository{}, noteRepo, log)

	_, err := svc.GetCoachingNote(context.Background(), "user-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	noteRepo.latest = &entity.CoachingNote{ID: 7, UserID: "user-1", Note: "Breathe before you click.", Model: "gemini-2.0-flash"}
	note, err := svc.GetCoachingNote(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Breathe before you click.", note.Note)
}

func TestMapTradesToRecords_DecimalBoundary(t *testing.T) {
	trades := []entity.Trade{
		{
			ID:         "t1",
			UserID:     "user-1",
			Symbol:     "AAPL",
			Profit:     decimal.NewFromFloat(12.34),
			ExecutedAt: time.Now(),
		},
	}

	records := MapTradesToRecords(trades)
	require.Len(t, records, 1)
	assert.InDelta(t, 12.34, records[0].Profit, 1e-9)
	assert.True(t, records[0].IsWin())
}
