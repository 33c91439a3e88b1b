package insight

import "time"

// TrendDirection classifies the slope of the fitted emotion trend line.
type TrendDirection string

const (
	TrendImproving        TrendDirection = "improving"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// InsightType classifies a generated insight.
type InsightType string

const (
	TypePerformanceCorrelation InsightType = "performance_correlation"
	TypeWarning                InsightType = "warning"
	TypeTrend                  InsightType = "trend"
)

// Priority is the urgency of an insight.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the sort ordinal of a priority, higher means more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// EmotionSample is a point-in-time emotional self-report. Level follows the
// domain convention of 1 (panic) to 10 (peak confidence); the engine does not
// validate the range.
type EmotionSample struct {
	Timestamp time.Time
	Level     float64
	UserID    string
	TradeID   string
	Notes     string
}

// TradeRecord is a closed or logged trade. Pre/post trade emotion share the
// 1-10 domain of EmotionSample.Level and are nil when the user skipped the
// check-in.
type TradeRecord struct {
	ID               string
	Timestamp        time.Time
	Symbol           string
	Profit           float64
	PreTradeEmotion  *float64
	PostTradeEmotion *float64
}

// IsWin reports whether the trade closed with positive profit.
func (t TradeRecord) IsWin() bool {
	return t.Profit > 0
}

// EmotionPerformanceBucket aggregates the trades whose rounded pre-trade
// emotion matches EmotionLevel. Buckets are only produced for levels with at
// least one qualifying trade.
type EmotionPerformanceBucket struct {
	EmotionLevel  int
	WinRate       float64
	TradeCount    int
	AverageProfit float64
	TradeIDs      []string
}

// TrendAnalysis is the result of a least-squares fit of emotion level over
// sample order. Slope and Intercept are zero when Direction is
// TrendInsufficientData.
type TrendAnalysis struct {
	Direction  TrendDirection
	Slope      float64
	Intercept  float64
	Confidence float64
}

// Insight is a generated observation about the relationship between the user's
// emotional state and trading performance.
type Insight struct {
	ID          string
	Type        InsightType
	Title       string
	Description string
	Confidence  float64
	Priority    Priority
	Actionable  bool
	CreatedAt   time.Time
}
