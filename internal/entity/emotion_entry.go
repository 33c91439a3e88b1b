package entity

import (
	"time"

	"gorm.io/gorm"
)

// EmotionEntry is a journaled emotional self-report. Level follows the 1-10
// domain convention and is validated at the API layer, not here.
type EmotionEntry struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	UserID     string         `gorm:"not null;index" json:"user_id"`
	Level      float64        `gorm:"not null" json:"level"`
	TradeID    *string        `json:"trade_id"`
	Notes      string         `gorm:"type:text" json:"notes"`
	RecordedAt time.Time      `gorm:"not null;index" json:"recorded_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at"`
}

func (EmotionEntry) TableName() string {
	return "emotion_entries"
}
