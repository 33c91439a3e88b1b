package repository

import (
	"context"
	"time"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// EmotionEntryRepository defines the interface for emotion check-in data operations.
type EmotionEntryRepository interface {
	Create(ctx context.Context, entry *entity.EmotionEntry) error
	FindByID(ctx context.Context, userID string, id int64) (*entity.EmotionEntry, error)
	FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.EmotionEntry, error)
	FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// NewEmotionEntryRepository creates a new GORM-based emotion entry repository.
func NewEmotionEntryRepository(db *gorm.DB) EmotionEntryRepository {
	return &emotionEntryRepository{db: db}
}

type emotionEntryRepository struct {
	db *gorm.DB
}

func (r *emotionEntryRepository) Create(ctx context.Context, entry *entity.EmotionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *emotionEntryRepository) FindByID(ctx context.Context, userID string, id int64) (*entity.EmotionEntry, error) {
	var entry entity.EmotionEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *emotionEntryRepository) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]entity.EmotionEntry, error) {
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

// FindActiveUserIDs returns the distinct users with check-ins since the given
// instant. The insight scheduler uses it to decide whose analysis to refresh.
func (r *emotionEntryRepository) FindActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&entity.EmotionEntry{}).
		Distinct("user_id").
		Where("created_at >= ?", since).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *emotionEntryRepository) Delete(ctx context.Context, userID string, id int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.EmotionEntry{}, id).Error
}
