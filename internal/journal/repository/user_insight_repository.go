package repository

import (
	"context"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// UserInsightRepository defines the interface for persisted insight operations.
type UserInsightRepository interface {
	ReplaceForUser(ctx context.Context, userID string, insights []entity.UserInsight) error
	FindActiveByUser(ctx context.Context, userID string) ([]entity.UserInsight, error)
}

// NewUserInsightRepository creates a new GORM-based user insight repository.
func NewUserInsightRepository(db *gorm.DB) UserInsightRepository {
	return &userInsightRepository{db: db}
}

type userInsightRepository struct {
	db *gorm.DB
}

// ReplaceForUser deactivates the user's current insights and inserts the new
// batch within one transaction, so readers never observe a half-replaced set.
func (r *userInsightRepository) ReplaceForUser(ctx context.Context, userID string, insights []entity.UserInsight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.UserInsight{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if len(insights) == 0 {
			return nil
		}
		return tx.Create(&insights).Error
	})
}

func (r *userInsightRepository) FindActiveByUser(ctx context.Context, userID string) ([]entity.UserInsight, error) {
	var insights []entity.UserInsight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}
