package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/service"
)

type SleepHandler struct {
	sleepService *service.SleepService
	logger       *zap.Logger
}

func NewSleepHandler(sleepService *service.SleepService, logger *zap.Logger) *SleepHandler {
	return &SleepHandler{
		sleepService: sleepService,
		logger:       logger,
	}
}

// Month handles GET /sleep/:year/:month
func (h *SleepHandler) Month(c *gin.Context) {
	year, month, ok := pathYearMonth(c)
	if !ok {
		return
	}

	entries, err := h.sleepService.Month(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		h.logger.Error("Sleep month fetch failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to fetch sleep data")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Stats handles GET /sleep/stats/:year/:month
func (h *SleepHandler) Stats(c *gin.Context) {
	year, month, ok := pathYearMonth(c)
	if !ok {
		return
	}

	stats, err := h.sleepService.Stats(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		h.logger.Error("Sleep stats failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to compute sleep stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Upsert handles POST /sleep
func (h *SleepHandler) Upsert(c *gin.Context) {
	var req struct {
		Date      string `json:"date"`
		Duration  int    `json:"duration"`
		Quality   *int   `json:"quality"`
		SleepType string `json:"sleepType"`
		NapIndex  int    `json:"napIndex"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	entry := &model.Sleep{
		UserID:    currentUserID(c),
		Date:      req.Date,
		Duration:  req.Duration,
		Quality:   req.Quality,
		SleepType: req.SleepType,
		NapIndex:  req.NapIndex,
		Notes:     req.Notes,
	}

	// Naps append after the existing ones unless the client pins an index.
	if entry.SleepType == model.SleepNap && entry.NapIndex == 0 {
		next, err := h.sleepService.NextNapIndex(c.Request.Context(), entry.UserID, entry.Date)
		if err != nil {
			h.logger.Error("Nap index lookup failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, CodeInternal, "failed to save sleep entry")
			return
		}
		entry.NapIndex = next
	}

	if err := h.sleepService.Upsert(c.Request.Context(), entry); err != nil {
		if errors.Is(err, service.ErrSleepFieldsMissing) {
			respondError(c, http.StatusBadRequest, CodeValidation, "date and duration are required")
			return
		}
		h.logger.Error("Sleep upsert failed", zap.String("date", req.Date), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to save sleep entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// NextNapIndex handles GET /sleep/next-nap-index/:date
func (h *SleepHandler) NextNapIndex(c *gin.Context) {
	date := c.Param("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "date is required")
		return
	}

	next, err := h.sleepService.NextNapIndex(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.logger.Error("Nap index lookup failed", zap.String("date", date), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to count naps")
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextNapIndex": next})
}

// Delete handles DELETE /sleep/:date
func (h *SleepHandler) Delete(c *gin.Context) {
	date := c.Param("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "date is required")
		return
	}
	sleepType := c.Query("sleepType")
	napIndex := 0
	if v, ok := c.GetQuery("napIndex"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, CodeValidation, "invalid napIndex parameter")
			return
		}
		napIndex = n
	}

	if err := h.sleepService.Delete(c.Request.Context(), currentUserID(c), date, sleepType, napIndex); err != nil {
		h.logger.Error("Sleep delete failed", zap.String("date", date), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to delete sleep entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
