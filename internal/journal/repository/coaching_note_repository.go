package repository

import (
	"context"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// CoachingNoteRepository defines the interface for coaching note operations.
type CoachingNoteRepository interface {
	Create(ctx context.Context, note *entity.CoachingNote) error
	FindLatestByUser(ctx context.Context, userID string) (*entity.CoachingNote, error)
}

// NewCoachingNoteRepository creates a new GORM-based coaching note repository.
func NewCoachingNoteRepository(db *gorm.DB) CoachingNoteRepository {
	return &coachingNoteRepository{db: db}
}

type coachingNoteRepository struct {
	db *gorm.DB
}

func (r *coachingNoteRepository) Create(ctx context.Context, note *entity.CoachingNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *coachingNoteRepository) FindLatestByUser(ctx context.Context, userID string) (*entity.CoachingNote, error) {
	var note entity.CoachingNote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}
