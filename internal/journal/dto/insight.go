package dto

import "time"

// InsightResponse is a live engine insight as returned by the patterns API.
type InsightResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Priority    string    `json:"priority"`
	Actionable  bool      `json:"actionable"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrendAnalysisResponse is the emotion trend fit.
type TrendAnalysisResponse struct {
	Direction  string  `json:"direction"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	Confidence float64 `json:"confidence"`
}

// EmotionPerformanceBucketResponse aggregates trades for one emotion level.
type EmotionPerformanceBucketResponse struct {
	EmotionLevel  int      `json:"emotion_level"`
	WinRate       float64  `json:"win_rate"`
	TradeCount    int      `json:"trade_count"`
	AverageProfit float64  `json:"average_profit"`
	TradeIDs      []string `json:"trade_ids"`
}

// AnalysisResponse combines the trend fit and the per-level buckets.
type AnalysisResponse struct {
	Trend   TrendAnalysisResponse              `json:"trend"`
	Buckets []EmotionPerformanceBucketResponse `json:"buckets"`
}

// CoachingNoteResponse is the latest AI coaching reflection for a user.
type CoachingNoteResponse struct {
	ID        int64     `json:"id"`
	Note      string    `json:"note"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInsightResponse is a persisted insight from a past worker run.
type UserInsightResponse struct {
	ID              int64     `json:"id"`
	InsightType     string    `json:"insight_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ConfidenceScore float64   `json:"confidence_score"`
	Priority        string    `json:"priority"`
	Actionable      bool      `json:"actionable"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
