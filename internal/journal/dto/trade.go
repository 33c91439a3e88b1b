package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateTradeRequest is the DTO for logging a trade.
type CreateTradeRequest struct {
	Symbol           string          `json:"symbol"`
	Profit           decimal.Decimal `json:"profit"`
	PreTradeEmotion  *float64        `json:"pre_trade_emotion"`
	PostTradeEmotion *float64        `json:"post_trade_emotion"`
	Tags             json.RawMessage `json:"tags" swaggertype:"object"`
	ExecutedAt       *time.Time      `json:"executed_at"` // defaults to now when omitted
}

// TradeResponse is the DTO for API responses containing a trade.
type TradeResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Symbol           string          `json:"symbol"`
	Profit           decimal.Decimal `json:"profit"`
	IsWin            bool            `json:"is_win"`
	PreTradeEmotion  *float64        `json:"pre_trade_emotion,omitempty"`
	PostTradeEmotion *float64        `json:"post_trade_emotion,omitempty"`
	Tags             json.RawMessage `json:"tags,omitempty" swaggertype:"object"`
	ExecutedAt       time.Time       `json:"executed_at"`
	CreatedAt        time.Time       `json:"created_at"`
}
