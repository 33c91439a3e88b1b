package entity

import (
	"time"

	"gorm.io/datatypes"
)

// CoachingNote is an AI-generated reflection on a user's latest insight batch.
type CoachingNote struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Note      string         `gorm:"type:text;not null" json:"note"`
	Model     string         `json:"model"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (CoachingNote) TableName() string {
	return "coaching_notes"
}
