package repository

import (
	"context"

	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/worker/dto"
)

// AIRepository defines the interface for AI-backed coaching note generation.
type AIRepository interface {
	GenerateCoachingNote(ctx context.Context, userID string, insights []insight.Insight) (*dto.CoachingNoteResult, error)
}
