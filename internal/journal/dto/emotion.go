package dto

import "time"

// CreateEmotionEntryRequest is the DTO for logging an emotion check-in.
type CreateEmotionEntryRequest struct {
	Level      float64    `json:"level"`
	TradeID    *string    `json:"trade_id"`
	Notes      string     `json:"notes"`
	RecordedAt *time.Time `json:"recorded_at"` // defaults to now when omitted
}

// EmotionEntryResponse is the DTO for API responses containing an emotion entry.
type EmotionEntryResponse struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Level      float64   `json:"level"`
	TradeID    *string   `json:"trade_id,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}
