package repository

import (
	"context"
	"time"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// HistoryRepository defines the journal reads the insight worker needs.
type HistoryRepository interface {
	FindEmotionEntries(ctx context.Context, userID string, from, to time.Time) ([]entity.EmotionEntry, error)
	FindTrades(ctx context.Context, userID string, from, to time.Time) ([]entity.Trade, error)
}

// NewHistoryRepository creates a new GORM-based history repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

type historyRepository struct {
	db *gorm.DB
}

func (r *historyRepository) FindEmotionEntries(ctx context.Context, userID string, from, to time.Time) ([]entity.EmotionEntry, error) {
	var entries []entity.EmotionEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Order("recorded_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) FindTrades(ctx context.Context, userID string, from, to time.Time) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND executed_at >= ? AND executed_at < ?", userID, from, to).
		Order("executed_at ASC").
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}
