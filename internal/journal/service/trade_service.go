package service

import (
	"context"
	"errors"
	"time"

	"golang-trading-journal/internal/entity"
	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/repository"
	"golang-trading-journal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrMissingSymbol is returned when a trade is logged without an instrument.
var ErrMissingSymbol = errors.New("trade symbol is required")

// TradeService defines the interface for managing logged trades.
type TradeService interface {
	CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error)
	GetTrades(ctx context.Context, userID string, from, to time.Time) ([]*dto.TradeResponse, error)
	GetTradeByID(ctx context.Context, userID, id string) (*dto.TradeResponse, error)
	DeleteTrade(ctx context.Context, userID, id string) error
}

// NewTradeService creates a new trade service.
func NewTradeService(tradeRepo repository.TradeRepository, logger *logger.Logger) TradeService {
	return &tradeService{
		tradeRepo: tradeRepo,
		logger:    logger,
	}
}

type tradeService struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

// CreateTrade validates and persists a trade log.
func (s *tradeService) CreateTrade(ctx context.Context, userID string, req *dto.CreateTradeRequest) (*dto.TradeResponse, error) {
	if req.Symbol == "" {
		return nil, ErrMissingSymbol
	}
	for _, level := range []*float64{req.PreTradeEmotion, req.PostTradeEmotion} {
		if level != nil && (*level < 1 || *level > 10) {
			return nil, ErrInvalidEmotionLevel
		}
	}

	executedAt := time.Now().UTC()
	if req.ExecutedAt != nil {
		executedAt = *req.ExecutedAt
	}

	trade := &entity.Trade{
		ID:               uuid.NewString(),
		UserID:           userID,
		Symbol:           req.Symbol,
		Profit:           req.Profit,
		PreTradeEmotion:  req.PreTradeEmotion,
		PostTradeEmotion: req.PostTradeEmotion,
		Tags:             datatypes.JSON(req.Tags),
		ExecutedAt:       executedAt,
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		s.logger.Error("Failed to create trade", logger.ErrorField(err), logger.StringField("user_id", userID))
		return nil, err
	}

	return mapToTradeResponse(trade), nil
}

// GetTrades retrieves a user's trades inside the given range.
func (s *tradeService) GetTrades(ctx context.Context, userID string, from, to time.Time) ([]*dto.TradeResponse, error) {
	trades, err := s.tradeRepo.FindByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var responses []*dto.TradeResponse
	for i := range trades {
		responses = append(responses, mapToTradeResponse(&trades[i]))
	}
	return responses, nil
}

// GetTradeByID retrieves a single trade owned by the user.
func (s *tradeService) GetTradeByID(ctx context.Context, userID, id string) (*dto.TradeResponse, error) {
	trade, err := s.tradeRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return mapToTradeResponse(trade), nil
}

// DeleteTrade removes a trade owned by the user.
func (s *tradeService) DeleteTrade(ctx context.Context, userID, id string) error {
	if err := s.tradeRepo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("Failed to delete trade", logger.ErrorField(err), logger.StringField("trade_id", id))
		return err
	}
	return nil
}

func mapToTradeResponse(trade *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		ID:               trade.ID,
		UserID:           trade.UserID,
		Symbol:           trade.Symbol,
		Profit:           trade.Profit,
		IsWin:            trade.IsWin(),
		PreTradeEmotion:  trade.PreTradeEmotion,
		PostTradeEmotion: trade.PostTradeEmotion,
		Tags:             []byte(trade.Tags),
		ExecutedAt:       trade.ExecutedAt,
		CreatedAt:        trade.CreatedAt,
	}
}
