package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittrack/internal/service"
)

type WidgetHandler struct {
	widgetService *service.WidgetService
	logger        *zap.Logger
}

func NewWidgetHandler(widgetService *service.WidgetService, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		widgetService: widgetService,
		logger:        logger,
	}
}

// Progress handles GET /widgets/progress
func (h *WidgetHandler) Progress(c *gin.Context) {
	progress, err := h.widgetService.Progress(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Widget progress failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to compute progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Stats handles GET /widgets/stats
func (h *WidgetHandler) Stats(c *gin.Context) {
	stats, err := h.widgetService.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Widget stats failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
