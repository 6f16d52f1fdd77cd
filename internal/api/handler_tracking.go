package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittrack/internal/service"
	"habittrack/pkg/metrics"
)

type TrackingHandler struct {
	trackingService *service.TrackingService
	logger          *zap.Logger
}

func NewTrackingHandler(trackingService *service.TrackingService, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		logger:          logger,
	}
}

// Toggle handles POST /tracking/toggle
func (h *TrackingHandler) Toggle(c *gin.Context) {
	var req struct {
		HabitID   int    `json:"habitId"`
		Date      string `json:"date"`
		Completed bool   `json:"completed"`
		Score     int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.HabitID == 0 || req.Date == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "habitId and date are required")
		return
	}

	tracking, err := h.trackingService.Toggle(c.Request.Context(), currentUserID(c), req.HabitID, req.Date, req.Completed, req.Score)
	if err != nil {
		if errors.Is(err, service.ErrFutureDate) {
			respondError(c, http.StatusBadRequest, CodeFutureDate, "cannot track a future date")
			return
		}
		h.logger.Error("Toggle failed",
			zap.Int("habit_id", req.HabitID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to record tracking")
		return
	}

	metrics.IncrementTrackingToggle(strconv.FormatBool(tracking.Completed))
	c.JSON(http.StatusOK, tracking)
}

// Streaks handles GET /tracking/streaks/:habitId/:year/:month
func (h *TrackingHandler) Streaks(c *gin.Context) {
	habitID, ok := pathInt(c, "habitId")
	if !ok {
		return
	}
	year, month, ok := pathYearMonth(c)
	if !ok {
		return
	}

	streaks, err := h.trackingService.Streaks(c.Request.Context(), currentUserID(c), habitID, year, month)
	if err != nil {
		h.logger.Error("Streak calculation failed", zap.Int("habit_id", habitID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to compute streaks")
		return
	}
	c.JSON(http.StatusOK, streaks)
}

// Scores handles GET /tracking/scores/:year/:month
func (h *TrackingHandler) Scores(c *gin.Context) {
	year, month, ok := pathYearMonth(c)
	if !ok {
		return
	}

	scores, err := h.trackingService.Scores(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		h.logger.Error("Score summary failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to fetch scores")
		return
	}
	c.JSON(http.StatusOK, scores)
}

// Month handles GET /tracking/:year/:month
func (h *TrackingHandler) Month(c *gin.Context) {
	year, month, ok := pathYearMonth(c)
	if !ok {
		return
	}

	trackings, err := h.trackingService.Month(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		h.logger.Error("Month tracking fetch failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to fetch tracking")
		return
	}
	c.JSON(http.StatusOK, trackings)
}

func pathYearMonth(c *gin.Context) (int, int, bool) {
	year, ok := pathInt(c, "year")
	if !ok {
		return 0, 0, false
	}
	month, ok := pathInt(c, "month")
	if !ok {
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid month parameter")
		return 0, 0, false
	}
	return year, month, true
}
