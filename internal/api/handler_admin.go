package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habittrack/internal/service"
)

type AdminHandler struct {
	adminService        *service.AdminService
	subscriptionService *service.SubscriptionService
	logger              *zap.Logger
}

func NewAdminHandler(adminService *service.AdminService, subscriptionService *service.SubscriptionService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "username and password are required")
		return
	}

	token, err := h.adminService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, CodeAuthError, "Invalid credentials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Verify handles GET /admin/verify
func (h *AdminHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "username": c.GetString("admin_username")})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("Dashboard aggregation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	pageData, err := h.adminService.ListUsers(c.Request.Context(), c.Query("search"), c.Query("status"), page, limit)
	if err != nil {
		h.logger.Error("User listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, pageData)
}

// UserDetail handles GET /admin/users/:id
func (h *AdminHandler) UserDetail(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, habits, trackingCount, err := h.adminService.UserDetail(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		h.logger.Error("User detail failed", zap.Int("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"habits":        habits,
		"trackingCount": trackingCount,
	})
}

// ToggleUserStatus handles PUT /admin/users/:id/toggle-status
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.ToggleUserStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to toggle status")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		h.logger.Error("User deletion failed", zap.Int("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// PendingSubscriptions handles GET /admin/subscriptions/pending
func (h *AdminHandler) PendingSubscriptions(c *gin.Context) {
	users, err := h.adminService.PendingSubscriptions(c.Request.Context())
	if err != nil {
		h.logger.Error("Pending subscription listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to list pending subscriptions")
		return
	}
	c.JSON(http.StatusOK, users)
}

// AllSubscriptions handles GET /admin/subscriptions/all
func (h *AdminHandler) AllSubscriptions(c *gin.Context) {
	users, err := h.adminService.AllSubscriptions(c.Request.Context())
	if err != nil {
		h.logger.Error("Subscription listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to list subscriptions")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Screenshot handles GET /admin/subscriptions/:id/screenshot
func (h *AdminHandler) Screenshot(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	data, err := h.adminService.Screenshot(c.Request.Context(), userID)
	if err != nil || len(data) == 0 {
		respondError(c, http.StatusNotFound, CodeNotFound, "Screenshot not found")
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// Approve handles PUT /admin/subscriptions/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, err := h.subscriptionService.Approve(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		h.logger.Error("Subscription approval failed", zap.Int("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to approve subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription approved", "user": user})
}

// Reject handles PUT /admin/subscriptions/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, err := h.subscriptionService.Reject(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			return
		}
		h.logger.Error("Subscription rejection failed", zap.Int("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to reject subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription rejected", "user": user})
}

// Pause handles PUT /admin/subscriptions/:id/pause
func (h *AdminHandler) Pause(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, err := h.subscriptionService.Pause(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
		case errors.Is(err, service.ErrNotActive), errors.Is(err, service.ErrAlreadyPaused):
			respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		default:
			h.logger.Error("Subscription pause failed", zap.Int("user_id", userID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, CodeInternal, "failed to pause subscription")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription paused", "user": user})
}

// Resume handles PUT /admin/subscriptions/:id/resume
func (h *AdminHandler) Resume(c *gin.Context) {
	userID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	user, err := h.subscriptionService.Resume(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
		case errors.Is(err, service.ErrNotActive), errors.Is(err, service.ErrNotPaused):
			respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		default:
			h.logger.Error("Subscription resume failed", zap.Int("user_id", userID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, CodeInternal, "failed to resume subscription")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription resumed", "user": user})
}
