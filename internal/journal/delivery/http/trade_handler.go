package http

import (
	"errors"
	"net/http"

	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/service"
	"golang-trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// TradeHandler handles HTTP requests for trade logs.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTrade)
	g.GET("", h.GetTrades)
	g.GET("/:id", h.GetTradeByID)
	g.DELETE("/:id", h.DeleteTrade)
}

// CreateTrade godoc
// @Summary Log a trade
// @Description Record a closed trade with optional pre/post trade emotion levels
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   trade  body    dto.CreateTradeRequest   true    "Trade to log"
// @Success 201 {object} dto.Response{data=dto.TradeResponse}
// @Failure 400 {object} dto.Response
// @Router /trades [post]
func (h *TradeHandler) CreateTrade(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request payload", err.Error()))
	}

	trade, err := h.tradeService.CreateTrade(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingSymbol) || errors.Is(err, service.ErrInvalidEmotionLevel) {
			return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		}
		h.logger.Error("Failed to create trade", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to create trade"))
	}

	return c.JSON(http.StatusCreated, dto.NewSuccessResponse("Trade created", trade))
}

// GetTrades godoc
// @Summary List trades
// @Description List the user's trades inside a date range (default last 90 days)
// @Tags trades
// @Produce  json
// @Param   days  query    int false    "Range in days"
// @Success 200 {object} dto.Response{data=[]dto.TradeResponse}
// @Failure 500 {object} dto.Response
// @Router /trades [get]
func (h *TradeHandler) GetTrades(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	from, to := rangeFromQuery(c, 90)
	trades, err := h.tradeService.GetTrades(c.Request().Context(), userID, from, to)
	if err != nil {
		h.logger.Error("Failed to list trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to list trades"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Trades retrieved", trades))
}

// GetTradeByID godoc
// @Summary Get a trade
// @Tags trades
// @Produce  json
// @Param   id  path    string true    "Trade ID"
// @Success 200 {object} dto.Response{data=dto.TradeResponse}
// @Failure 404 {object} dto.Response
// @Router /trades/{id} [get]
func (h *TradeHandler) GetTradeByID(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	trade, err := h.tradeService.GetTradeByID(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewErrorResponse("Trade not found"))
		}
		h.logger.Error("Failed to get trade", logger.ErrorField(err), logger.StringField("trade_id", c.Param("id")))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to get trade"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Trade retrieved", trade))
}

// DeleteTrade godoc
// @Summary Delete a trade
// @Tags trades
// @Produce  json
// @Param   id  path    string true    "Trade ID"
// @Success 200 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /trades/{id} [delete]
func (h *TradeHandler) DeleteTrade(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	if err := h.tradeService.DeleteTrade(c.Request().Context(), userID, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to delete trade"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Trade deleted", nil))
}
