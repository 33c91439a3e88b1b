package dto

// InsightTaskPayload is the message published to the insight generation stream.
type InsightTaskPayload struct {
	UserID    string `json:"user_id"`
	RangeDays int    `json:"range_days"`
}
