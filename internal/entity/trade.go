package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Trade is a logged trade event. Profit is stored as numeric to avoid float
// drift on money values; pre/post trade emotions share the 1-10 domain of
// EmotionEntry.Level.
type Trade struct {
	ID               string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string          `gorm:"not null;index" json:"user_id"`
	Symbol           string          `gorm:"not null" json:"symbol"`
	Profit           decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"profit"`
	PreTradeEmotion  *float64        `json:"pre_trade_emotion"`
	PostTradeEmotion *float64        `json:"post_trade_emotion"`
	Tags             datatypes.JSON  `gorm:"type:jsonb" json:"tags"`
	ExecutedAt       time.Time       `gorm:"not null;index" json:"executed_at"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"deleted_at"`
}

func (Trade) TableName() string {
	return "trades"
}

// IsWin reports whether the trade closed with positive profit.
func (t *Trade) IsWin() bool {
	return t.Profit.IsPositive()
}
