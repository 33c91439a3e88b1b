package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) // a Monday

func newTestEngine() *Engine {
	seq := 0
	return NewEngine(
		WithClock(func() time.Time { return baseTime }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("insight-%d", seq)
		}),
	)
}

func sampleAt(ts time.Time, level float64) EmotionSample {
	return EmotionSample{Timestamp: ts, Level: level, UserID: "user-1"}
}

func samplesWithLevels(levels ...float64) []EmotionSample {
	samples := make([]EmotionSample, 0, len(levels))
	for i, level := range levels {
		samples = append(samples, sampleAt(baseTime.Add(time.Duration(i)*time.Hour), level))
	}
	return samples
}

func emotionPtr(level float64) *float64 {
	return &level
}

func tradeAt(ts time.Time, id string, profit float64, preEmotion *float64) TradeRecord {
	return TradeRecord{
		ID:              id,
		Timestamp:       ts,
		Symbol:          "AAPL",
		Profit:          profit,
		PreTradeEmotion: preEmotion,
	}
}

func TestCalculateTrend_InsufficientData(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name    string
		samples []EmotionSample
	}{
		{name: "no samples", samples: nil},
		{name: "one sample", samples: samplesWithLevels(5)},
		{name: "two samples", samples: samplesWithLevels(5, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := engine.CalculateTrend(tt.samples)
			assert.Equal(t, TrendInsufficientData, trend.Direction)
			assert.Zero(t, trend.Slope)
			assert.Zero(t, trend.Intercept)
			assert.Zero(t, trend.Confidence)
		})
	}
}

func TestCalculateTrend_ZeroVariance(t *testing.T) {
	engine := newTestEngine()

	trend := engine.CalculateTrend(samplesWithLevels(5, 5, 5, 5, 5))

	assert.Equal(t, TrendStable, trend.Direction)
	assert.InDelta(t, 0, trend.Slope, 1e-9)
	assert.Zero(t, trend.Confidence)
}

func TestCalculateTrend_PerfectImprovingLine(t *testing.T) {
	engine := newTestEngine()

	// Levels 1..10: slope 1, perfect fit, 10 samples damps confidence to 50.
	trend := engine.CalculateTrend(samplesWithLevels(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	assert.Equal(t, TrendImproving, trend.Direction)
	assert.InDelta(t, 1.0, trend.Slope, 1e-9)
	assert.InDelta(t, 1.0, trend.Intercept, 1e-9)
	assert.InDelta(t, 50.0, trend.Confidence, 1e-9)
}

func TestCalculateTrend_DecliningUnsortedInput(t *testing.T) {
	engine := newTestEngine()

	// Supplied out of order; the engine must sort by timestamp first.
	samples := []EmotionSample{
		sampleAt(baseTime.Add(2*time.Hour), 4),
		sampleAt(baseTime, 8),
		sampleAt(baseTime.Add(time.Hour), 6),
	}

	trend := engine.CalculateTrend(samples)

	assert.Equal(t, TrendDeclining, trend.Direction)
	assert.InDelta(t, -2.0, trend.Slope, 1e-9)
}

func TestCalculateTrend_SmallSlopeIsStable(t *testing.T) {
	engine := newTestEngine()

	trend := engine.CalculateTrend(samplesWithLevels(5, 5.1, 5, 5.1, 5, 5.1))

	assert.Equal(t, TrendStable, trend.Direction)
}

func TestAnalyzeEmotionPerformance_BucketInvariants(t *testing.T) {
	engine := newTestEngine()

	trades := []TradeRecord{
		tradeAt(baseTime, "t1", 100, emotionPtr(8)),
		tradeAt(baseTime, "t2", -50, emotionPtr(8.3)), // rounds to 8
		tradeAt(baseTime, "t3", 25, emotionPtr(7.5)),  // rounds to 8
		tradeAt(baseTime, "t4", -10, emotionPtr(2)),
		tradeAt(baseTime, "t5", 40, nil), // excluded: no pre-trade emotion
	}

	buckets := engine.AnalyzeEmotionPerformance(trades)

	require.Len(t, buckets, 2)

	assert.Equal(t, 2, buckets[0].EmotionLevel)
	assert.Equal(t, 1, buckets[0].TradeCount)
	assert.Zero(t, buckets[0].WinRate)
	assert.InDelta(t, -10, buckets[0].AverageProfit, 1e-9)

	assert.Equal(t, 8, buckets[1].EmotionLevel)
	assert.Equal(t, 3, buckets[1].TradeCount)
	assert.InDelta(t, 2.0/3.0, buckets[1].WinRate, 1e-9)
	assert.InDelta(t, 25, buckets[1].AverageProfit, 1e-9)
	assert.Equal(t, []string{"t1", "t2", "t3"}, buckets[1].TradeIDs)

	for _, b := range buckets {
		assert.GreaterOrEqual(t, b.WinRate, 0.0)
		assert.LessOrEqual(t, b.WinRate, 1.0)
		assert.Equal(t, b.TradeCount, len(b.TradeIDs))
	}
}

func TestAnalyzeEmotionPerformance_EmptyInput(t *testing.T) {
	engine := newTestEngine()

	assert.Empty(t, engine.AnalyzeEmotionPerformance(nil))
	assert.Empty(t, engine.AnalyzeEmotionPerformance([]TradeRecord{
		tradeAt(baseTime, "t1", 100, nil),
	}))
}

func TestGenerateInsights_SweetSpotScenario(t *testing.T) {
	engine := newTestEngine()

	// Scenario: 10 trades, all at emotion level 8, all winners with profit 100.
	var trades []TradeRecord
	for i := 0; i < 10; i++ {
		trades = append(trades, tradeAt(baseTime, fmt.Sprintf("t%d", i), 100, emotionPtr(8)))
	}

	buckets := engine.AnalyzeEmotionPerformance(trades)
	require.Len(t, buckets, 1)
	assert.Equal(t, 8, buckets[0].EmotionLevel)
	assert.InDelta(t, 1.0, buckets[0].WinRate, 1e-9)
	assert.Equal(t, 10, buckets[0].TradeCount)
	assert.InDelta(t, 100, buckets[0].AverageProfit, 1e-9)

	insights := engine.GenerateInsights("user-1", nil, trades)

	require.Len(t, insights, 1)
	sweet := insights[0]
	assert.Equal(t, TypePerformanceCorrelation, sweet.Type)
	assert.Equal(t, PriorityHigh, sweet.Priority)
	assert.True(t, sweet.Actionable)
	assert.InDelta(t, 85, sweet.Confidence, 1e-9) // 10 trades lands in the <20 bracket
	assert.Contains(t, sweet.Description, "100%")
	assert.Contains(t, sweet.Description, "8")
}

func TestGenerateInsights_SweetSpotStrictThreshold(t *testing.T) {
	engine := newTestEngine()

	// Exactly 0.7 win rate must not fire: strict inequality.
	var trades []TradeRecord
	for i := 0; i < 10; i++ {
		profit := 100.0
		if i >= 7 {
			profit = -100.0
		}
		trades = append(trades, tradeAt(baseTime, fmt.Sprintf("t%d", i), profit, emotionPtr(8)))
	}

	insights := engine.GenerateInsights("user-1", nil, trades)

	for _, in := range insights {
		assert.NotEqual(t, "Emotional Sweet Spot Detected", in.Title)
	}
}

func TestGenerateInsights_SweetSpotNeedsFiveTrades(t *testing.T) {
	engine := newTestEngine()

	// 4 wins out of 4: win rate qualifies but the count does not.
	var trades []TradeRecord
	for i := 0; i < 4; i++ {
		trades = append(trades, tradeAt(baseTime, fmt.Sprintf("t%d", i), 100, emotionPtr(8)))
	}

	insights := engine.GenerateInsights("user-1", nil, trades)
	assert.Empty(t, insights)
}

func TestGenerateInsights_DangerZone(t *testing.T) {
	engine := newTestEngine()

	trades := []TradeRecord{
		tradeAt(baseTime, "t1", -50, emotionPtr(2)),
		tradeAt(baseTime, "t2", -30, emotionPtr(2)),
		tradeAt(baseTime, "t3", -10, emotionPtr(2)),
	}

	insights := engine.GenerateInsights("user-1", nil, trades)

	require.Len(t, insights, 1)
	danger := insights[0]
	assert.Equal(t, TypeWarning, danger.Type)
	assert.Equal(t, PriorityHigh, danger.Priority)
	assert.InDelta(t, 50, danger.Confidence, 1e-9) // 3 trades lands in the <5 bracket
	assert.Contains(t, danger.Description, "2")
}

func TestGenerateInsights_DangerZoneStrictThreshold(t *testing.T) {
	engine := newTestEngine()

	// Exactly 0.3 win rate must not fire.
	var trades []TradeRecord
	for i := 0; i < 10; i++ {
		profit := -100.0
		if i < 3 {
			profit = 100.0
		}
		trades = append(trades, tradeAt(baseTime, fmt.Sprintf("t%d", i), profit, emotionPtr(2)))
	}

	insights := engine.GenerateInsights("user-1", nil, trades)
	for _, in := range insights {
		assert.NotEqual(t, "Emotional Danger Zone", in.Title)
	}
}

func TestGenerateInsights_TrendRequiresThreeSamples(t *testing.T) {
	engine := newTestEngine()

	trend := engine.CalculateTrend(samplesWithLevels(4, 6))
	assert.Equal(t, TrendInsufficientData, trend.Direction)

	insights := engine.GenerateInsights("user-1", samplesWithLevels(4, 6), nil)
	for _, in := range insights {
		assert.NotEqual(t, TypeTrend, in.Type)
	}
}

func TestGenerateInsights_DecliningTrendIsHighPriority(t *testing.T) {
	engine := newTestEngine()

	// A perfect declining line over 20 samples: confidence 100, priority high.
	levels := make([]float64, 20)
	for i := range levels {
		levels[i] = 10 - 0.45*float64(i)
	}

	insights := engine.GenerateInsights("user-1", samplesWithLevels(levels...), nil)

	var trendInsight *Insight
	for i := range insights {
		if insights[i].Type == TypeTrend {
			trendInsight = &insights[i]
		}
	}
	require.NotNil(t, trendInsight)
	assert.Equal(t, PriorityHigh, trendInsight.Priority)
	assert.Equal(t, "Emotional Trend: Declining", trendInsight.Title)
	assert.InDelta(t, 100, trendInsight.Confidence, 1e-9)
}

func TestGenerateInsights_Volatility(t *testing.T) {
	engine := newTestEngine()

	// Alternating 1 and 10: population stddev 4.5.
	samples := samplesWithLevels(1, 10, 1, 10)

	insights := engine.GenerateInsights("user-1", samples, nil)

	var volatility *Insight
	for i := range insights {
		if insights[i].Title == "High Emotional Volatility" {
			volatility = &insights[i]
		}
	}
	require.NotNil(t, volatility)
	assert.Equal(t, TypeWarning, volatility.Type)
	assert.Equal(t, PriorityHigh, volatility.Priority)
	assert.InDelta(t, 85, volatility.Confidence, 1e-9)
	assert.Contains(t, volatility.Description, "4.5")
}

func TestGenerateInsights_VolatilityGuards(t *testing.T) {
	engine := newTestEngine()

	// A single sample is guarded, not computed as zero volatility.
	assert.Empty(t, engine.GenerateInsights("user-1", samplesWithLevels(5), nil))

	// Calm check-ins stay below the threshold.
	insights := engine.GenerateInsights("user-1", samplesWithLevels(5, 6, 5, 6), nil)
	for _, in := range insights {
		assert.NotEqual(t, "High Emotional Volatility", in.Title)
	}
}

func TestGenerateInsights_DayOfWeekPattern(t *testing.T) {
	engine := newTestEngine()

	monday := baseTime                         // Monday
	friday := baseTime.Add(4 * 24 * time.Hour) // Friday

	var trades []TradeRecord
	for i := 0; i < 4; i++ {
		trades = append(trades, tradeAt(monday, fmt.Sprintf("mon-%d", i), 100, emotionPtr(6)))
	}
	for i := 0; i < 3; i++ {
		trades = append(trades, tradeAt(friday, fmt.Sprintf("fri-%d", i), -100, emotionPtr(6)))
	}

	insights := engine.GenerateInsights("user-1", nil, trades)

	var pattern *Insight
	for i := range insights {
		if insights[i].Title == "Day-of-Week Performance Pattern" {
			pattern = &insights[i]
		}
	}
	require.NotNil(t, pattern)
	assert.Equal(t, TypePerformanceCorrelation, pattern.Type)
	assert.Equal(t, PriorityMedium, pattern.Priority)
	assert.Contains(t, pattern.Description, "Monday")
	assert.Contains(t, pattern.Description, "Friday")
	assert.InDelta(t, 70, pattern.Confidence, 1e-9) // 7 combined trades
}

func TestGenerateInsights_HourOfDayPattern(t *testing.T) {
	engine := newTestEngine()

	morning := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	afternoon := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

	var trades []TradeRecord
	for i := 0; i < 3; i++ {
		trades = append(trades, tradeAt(afternoon, fmt.Sprintf("pm-%d", i), 100, emotionPtr(6)))
	}
	for i := 0; i < 3; i++ {
		trades = append(trades, tradeAt(morning, fmt.Sprintf("am-%d", i), -100, emotionPtr(6)))
	}

	insights := engine.GenerateInsights("user-1", nil, trades)

	var pattern *Insight
	for i := range insights {
		if insights[i].Title == "Hour-of-Day Performance Pattern" {
			pattern = &insights[i]
		}
	}
	require.NotNil(t, pattern)
	assert.Contains(t, pattern.Description, "3 PM")
	assert.Contains(t, pattern.Description, "9 AM")
}

func TestGenerateInsights_SortedByPriorityThenConfidence(t *testing.T) {
	engine := newTestEngine()

	// Fire several rules at once: danger zone, volatility, declining trend,
	// plus a day-of-week pattern at medium priority.
	levels := make([]float64, 20)
	for i := range levels {
		if i%2 == 0 {
			levels[i] = 10 - 0.45*float64(i)
		} else {
			levels[i] = 1
		}
	}
	samples := samplesWithLevels(levels...)

	monday := baseTime
	friday := baseTime.Add(4 * 24 * time.Hour)
	var trades []TradeRecord
	for i := 0; i < 4; i++ {
		trades = append(trades, tradeAt(monday, fmt.Sprintf("mon-%d", i), 100, emotionPtr(8)))
	}
	for i := 0; i < 4; i++ {
		trades = append(trades, tradeAt(friday, fmt.Sprintf("fri-%d", i), -100, emotionPtr(2)))
	}

	insights := engine.GenerateInsights("user-1", samples, trades)
	require.NotEmpty(t, insights)

	for i := 1; i < len(insights); i++ {
		prev, curr := insights[i-1], insights[i]
		assert.GreaterOrEqual(t, prev.Priority.Rank(), curr.Priority.Rank())
		if prev.Priority.Rank() == curr.Priority.Rank() {
			assert.GreaterOrEqual(t, prev.Confidence, curr.Confidence)
		}
	}
}

func TestGenerateInsights_DeterministicContent(t *testing.T) {
	samples := samplesWithLevels(1, 10, 1, 10, 1, 10)
	var trades []TradeRecord
	for i := 0; i < 10; i++ {
		trades = append(trades, tradeAt(baseTime, fmt.Sprintf("t%d", i), 100, emotionPtr(8)))
	}

	first := NewEngine().GenerateInsights("user-1", samples, trades)
	second := NewEngine().GenerateInsights("user-1", samples, trades)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Title, second[i].Title)
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
		assert.Equal(t, first[i].Priority, second[i].Priority)
		// IDs are freshly generated per call.
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestGenerateInsights_EmptyInputs(t *testing.T) {
	engine := newTestEngine()

	assert.Empty(t, engine.GenerateInsights("user-1", nil, nil))
	assert.Empty(t, engine.GenerateInsights("user-1", []EmotionSample{}, []TradeRecord{}))
}

func TestSampleSizeConfidence(t *testing.T) {
	tests := []struct {
		count    int
		expected float64
	}{
		{0, 30}, {2, 30},
		{3, 50}, {4, 50},
		{5, 70}, {9, 70},
		{10, 85}, {19, 85},
		{20, 95}, {100, 95},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sampleSizeConfidence(tt.count), "count=%d", tt.count)
	}
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "12 AM", formatHour(0))
	assert.Equal(t, "9 AM", formatHour(9))
	assert.Equal(t, "12 PM", formatHour(12))
	assert.Equal(t, "3 PM", formatHour(15))
	assert.Equal(t, "11 PM", formatHour(23))
}
