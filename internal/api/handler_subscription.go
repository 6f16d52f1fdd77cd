package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittrack/internal/service"
)

// maxUploadBytes bounds the raw screenshot before server-side compression.
const maxUploadBytes = 5 << 20

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	logger              *zap.Logger
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// SubmitPayment handles POST /subscription/submit-payment (multipart).
func (h *SubscriptionHandler) SubmitPayment(c *gin.Context) {
	file, err := c.FormFile("screenshot")
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "screenshot is required")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, CodeValidation, "screenshot must be under 5MB")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to read screenshot")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || int64(len(raw)) > maxUploadBytes {
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to read screenshot")
		return
	}

	user, err := h.subscriptionService.SubmitPayment(c.Request.Context(), currentUserID(c), raw)
	if err != nil {
		h.logger.Error("Payment submission failed", zap.Error(err))
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to process screenshot")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment submitted. Your account will be activated within 1 hour.",
		"user":    user,
	})
}

// Status handles GET /subscription/status
func (h *SubscriptionHandler) Status(c *gin.Context) {
	user, err := h.subscriptionService.Status(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           user.SubscriptionStatus,
		"subscriptionDate": user.SubscriptionDate,
		"expiryDate":       user.SubscriptionExpiry,
		"isPaused":         user.IsPaused,
		"daysLeft":         service.DaysLeft(user, time.Now()),
	})
}
