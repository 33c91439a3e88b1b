package repository

import (
	"context"
	"time"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// TradeRepository defines the interface for trade data operations.
type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	FindByID(ctx context.Context, userID, id string) (*entity.Trade, error)
	FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Trade, error)
	FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
	Delete(ctx context.Context, userID, id string) error
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

func (r *tradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, userID, id string) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Trade, error) {
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

func (r *tradeRepository) FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&entity.Trade{}).
		Distinct("user_id").
		Where("created_at >= ?", since).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *tradeRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&entity.Trade{}).Error
}
