package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/internal/journal/service"
	"golang-trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PatternHandler handles HTTP requests for pattern analysis.
type PatternHandler struct {
	patternService service.PatternService
	logger         *logger.Logger
}

// NewPatternHandler creates a new PatternHandler.
func NewPatternHandler(patternService service.PatternService, logger *logger.Logger) *PatternHandler {
	return &PatternHandler{patternService: patternService, logger: logger}
}

// RegisterRoutes registers the pattern routes to the Echo group.
func (h *PatternHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/insights", h.GetInsights)
	g.GET("/insights/history", h.GetInsightHistory)
	g.GET("/analysis", h.GetAnalysis)
	g.GET("/coaching-note", h.GetCoachingNote)
}

// GetInsights godoc
// @Summary Get live insights
// @Description Run the pattern analysis engine over the user's journal history
// @Tags patterns
// @Produce  json
// @Param   days  query    int false    "Range in days (default 90)"
// @Success 200 {object} dto.Response{data=[]dto.InsightResponse}
// @Failure 500 {object} dto.Response
// @Router /patterns/insights [get]
func (h *PatternHandler) GetInsights(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	insights, err := h.patternService.GetInsights(c.Request().Context(), userID, daysFromQuery(c))
	if err != nil {
		h.logger.Error("Failed to generate insights", logger.ErrorField(err), logger.StringField("user_id", userID))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to generate insights"))
	}

	// An empty list is a valid outcome: not enough data for any rule to fire.
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Insights generated", insights))
}

// GetAnalysis godoc
// @Summary Get raw pattern analysis
// @Description Emotion trend fit and per-level performance buckets
// @Tags patterns
// @Produce  json
// @Param   days  query    int false    "Range in days (default 90)"
// @Success 200 {object} dto.Response{data=dto.AnalysisResponse}
// @Failure 500 {object} dto.Response
// @Router /patterns/analysis [get]
func (h *PatternHandler) GetAnalysis(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	analysis, err := h.patternService.GetAnalysis(c.Request().Context(), userID, daysFromQuery(c))
	if err != nil {
		h.logger.Error("Failed to run analysis", logger.ErrorField(err), logger.StringField("user_id", userID))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to run analysis"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Analysis complete", analysis))
}

// GetInsightHistory godoc
// @Summary Get persisted insights
// @Description Active insights stored by the last background regeneration
// @Tags patterns
// @Produce  json
// @Success 200 {object} dto.Response{data=[]dto.UserInsightResponse}
// @Failure 500 {object} dto.Response
// @Router /patterns/insights/history [get]
func (h *PatternHandler) GetInsightHistory(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	insights, err := h.patternService.GetInsightHistory(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load insight history", logger.ErrorField(err), logger.StringField("user_id", userID))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to load insight history"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Insight history retrieved", insights))
}

// GetCoachingNote godoc
// @Summary Get the latest coaching note
// @Description AI-generated reflection on the last insight batch
// @Tags patterns
// @Produce  json
// @Success 200 {object} dto.Response{data=dto.CoachingNoteResponse}
// @Failure 404 {object} dto.Response
// @Failure 500 {object} dto.Response
// @Router /patterns/coaching-note [get]
func (h *PatternHandler) GetCoachingNote(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	note, err := h.patternService.GetCoachingNote(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewErrorResponse("No coaching note yet"))
		}
		h.logger.Error("Failed to load coaching note", logger.ErrorField(err), logger.StringField("user_id", userID))
		return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to load coaching note"))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Coaching note retrieved", note))
}

func daysFromQuery(c echo.Context) int {
	if raw := c.QueryParam("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0 // service applies the configured default
}
