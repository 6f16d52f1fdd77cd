package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittrack/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// GoogleLogin handles POST /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Credential == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "credential is required")
		return
	}

	token, user, isNewUser, err := h.authService.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, service.ErrBadCredential) {
			respondError(c, http.StatusUnauthorized, CodeAuthError, "Authentication failed")
			return
		}
		h.logger.Error("Google login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user":      user,
		"isNewUser": isNewUser,
	})
}

// Verify handles GET /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": currentUser(c)})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name   *string    `json:"name"`
		DOB    *time.Time `json:"dob"`
		Gender *string    `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name, req.DOB, req.Gender)
	if err != nil {
		h.logger.Error("Profile update failed", zap.Error(err))
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}
