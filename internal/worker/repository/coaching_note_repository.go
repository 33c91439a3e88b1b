package repository

import (
	"context"

	"golang-trading-journal/internal/entity"

	"gorm.io/gorm"
)

// CoachingNoteRepository defines the coaching note writes the worker performs.
type CoachingNoteRepository interface {
	Create(ctx context.Context, note *entity.CoachingNote) error
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
