package entity

import (
	"time"

	"gorm.io/datatypes"
)

// UserInsight is a persisted engine insight. Each regeneration deactivates the
// user's previous rows and inserts a fresh batch.
type UserInsight struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	UserID          string         `gorm:"not null;index" json:"user_id"`
	InsightType     string         `gorm:"not null" json:"insight_type"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	ConfidenceScore float64        `gorm:"not null" json:"confidence_score"`
	Priority        string         `gorm:"not null" json:"priority"`
	Actionable      bool           `gorm:"not null" json:"actionable"`
	IsActive        bool           `gorm:"not null;index" json:"is_active"`
	Data            datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserInsight) TableName() string {
	return "user_insights"
}
