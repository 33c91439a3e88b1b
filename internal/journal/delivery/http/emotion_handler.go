package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/service"
	"golang-trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EmotionHandler handles HTTP requests for emotion check-ins.
type EmotionHandler struct {
	emotionService service.EmotionService
	logger         *logger.Logger
}

// NewEmotionHandler creates a new EmotionHandler.
func NewEmotionHandler(emotionService service.EmotionService, logger *logger.Logger) *EmotionHandler {
	return &EmotionHandler{emotionService: emotionService, logger: logger}
}

// RegisterRoutes registers the emotion routes to the Echo group.
func (h *EmotionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateEntry)
	g.GET("", h.GetEntries)
	g.GET("/:id", h.GetEntryByID)
	g.DELETE("/:id", h.DeleteEntry)
}

// CreateEntry godoc
// @Summary Log an emotion check-in
// @Description Record a point-in-time emotional self-report (level 1-10)
// @Tags emotions
// @Accept  json
// @Produce  json
// @Param   entry  body    dto.CreateEmotionEntryRequest   true    "Check-in to log"
// @Success 201 {object} dto.Response{data=dto.EmotionEntryResponse}
// @Failure 400 {object} dto.Response
// @Router /emotions [post]
func (h *EmotionHandler) CreateEntry(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateEmotionEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request payload", err.Error()))
	}

	entry, err := h.emotionService.CreateEntry(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmotionLevel) {
			return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		}
		h.logger.Error("Failed to create emotion entry", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to create emotion entry"))
	}

	return c.JSON(http.StatusCreated, dto.NewSuccessResponse("Emotion entry created", entry))
}

// GetEntries godoc
// @Summary List emotion check-ins
// @Description List the user's check-ins inside a date range (default last 90 days)
// @Tags emotions
// @Produce  json
// @Param   days  query    int false    "Range in days"
// @Success 200 {object} dto.Response{data=[]dto.EmotionEntryResponse}
// @Failure 500 {object} dto.Response
// @Router /emotions [get]
func (h *EmotionHandler) GetEntries(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	from, to := rangeFromQuery(c, 90)
	entries, err := h.emotionService.GetEntries(c.Request().Context(), userID, from, to)
	if err != nil {
		h.logger.Error("Failed to list emotion entries", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to list emotion entries"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Emotion entries retrieved", entries))
}

// GetEntryByID godoc
// @Summary Get an emotion check-in
// @Tags emotions
// @Produce  json
// @Param   id  path    int true    "Entry ID"
// @Success 200 {object} dto.Response{data=dto.EmotionEntryResponse}
// @Failure 404 {object} dto.Response
// @Router /emotions/{id} [get]
func (h *EmotionHandler) GetEntryByID(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid entry ID"))
	}

	entry, err := h.emotionService.GetEntryByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewErrorResponse("Emotion entry not found"))
		}
		h.logger.Error("Failed to get emotion entry", logger.ErrorField(err), logger.Field("entry_id", id))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to get emotion entry"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Emotion entry retrieved", entry))
}

// DeleteEntry godoc
// @Summary Delete an emotion check-in
// @Tags emotions
// @Produce  json
// @Param   id  path    int true    "Entry ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /emotions/{id} [delete]
func (h *EmotionHandler) DeleteEntry(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid entry ID"))
	}

	if err := h.emotionService.DeleteEntry(c.Request().Context(), userID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to delete emotion entry"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Emotion entry deleted", nil))
}

// rangeFromQuery resolves the [from, to) window from the "days" query param.
func rangeFromQuery(c echo.Context, defaultDays int) (time.Time, time.Time) {
	days := defaultDays
	if raw := c.QueryParam("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	to := time.Now().UTC()
	return to.AddDate(0, 0, -days), to
}
