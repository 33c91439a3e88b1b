package dto

// StreamDataInsightGenerate is the payload of one insight generation task.
type StreamDataInsightGenerate struct {
	UserID    string `json:"user_id"`
	RangeDays int    `json:"range_days"`
}
