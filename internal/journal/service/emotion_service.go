package service

import (
	"context"
	"errors"
	"time"

	"golang-trading-journal/internal/entity"
	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/repository"
	"golang-trading-journal/pkg/logger"
)

// ErrInvalidEmotionLevel is returned when a check-in level falls outside the
// 1-10 domain. Validation happens here so that out-of-range levels never reach
// the analysis engine.
var ErrInvalidEmotionLevel = errors.New("emotion level must be between 1 and 10")

// EmotionService defines the interface for managing emotion check-ins.
type EmotionService interface {
	CreateEntry(ctx context.Context, userID string, req *dto.CreateEmotionEntryRequest) (*dto.EmotionEntryResponse, error)
	GetEntries(ctx context.Context, userID string, from, to time.Time) ([]*dto.EmotionEntryResponse, error)
	GetEntryByID(ctx context.Context, userID string, id int64) (*dto.EmotionEntryResponse, error)
	DeleteEntry(ctx context.Context, userID string, id int64) error
}

// NewEmotionService creates a new emotion service.
func NewEmotionService(entryRepo repository.EmotionEntryRepository, logger *logger.Logger) EmotionService {
	return &emotionService{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

type emotionService struct {
	entryRepo repository.EmotionEntryRepository
	logger    *logger.Logger
}

// CreateEntry validates and persists an emotion check-in.
func (s *emotionService) CreateEntry(ctx context.Context, userID string, req *dto.CreateEmotionEntryRequest) (*dto.EmotionEntryResponse, error) {
	if req.Level < 1 || req.Level > 10 {
		return nil, ErrInvalidEmotionLevel
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	entry := &entity.EmotionEntry{
		UserID:     userID,
		Level:      req.Level,
		TradeID:    req.TradeID,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create emotion entry", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	return mapToEmotionEntryResponse(entry), nil
}

// GetEntries retrieves a user's check-ins inside the given range.
func (s *emotionService) GetEntries(ctx context.Context, userID string, from, to time.Time) ([]*dto.EmotionEntryResponse, error) {
	entries, err := s.entryRepo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var responses []*dto.EmotionEntryResponse
	for i := range entries {
		responses = append(responses, mapToEmotionEntryResponse(&entries[i]))
	}
	return responses, nil
}

// GetEntryByID retrieves a single check-in owned by the user.
func (s *emotionService) GetEntryByID(ctx context.Context, userID string, id int64) (*dto.EmotionEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return mapToEmotionEntryResponse(entry), nil
}

// DeleteEntry removes a check-in owned by the user.
func (s *emotionService) DeleteEntry(ctx context.Context, userID string, id int64) error {
	if err := s.entryRepo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("Failed to delete emotion entry", logger.ErrorField(err), logger.Field("entry_id", id))
		return err
	}
	return nil
}

func mapToEmotionEntryResponse(entry *entity.EmotionEntry) *dto.EmotionEntryResponse {
	return &dto.EmotionEntryResponse{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Level:      entry.Level,
		TradeID:    entry.TradeID,
		Notes:      entry.Notes,
		RecordedAt: entry.RecordedAt,
		CreatedAt:  entry.CreatedAt,
	}
}
