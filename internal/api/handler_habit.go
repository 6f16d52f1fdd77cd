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

type HabitHandler struct {
	habitService *service.HabitService
	logger       *zap.Logger
}

func NewHabitHandler(habitService *service.HabitService, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		logger:       logger,
	}
}

// List handles GET /habits and GET /habits?year&month
func (h *HabitHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	yearStr, monthStr := c.Query("year"), c.Query("month")
	if yearStr != "" && monthStr != "" {
		year, err1 := strconv.Atoi(yearStr)
		month, err2 := strconv.Atoi(monthStr)
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			respondError(c, http.StatusBadRequest, CodeValidation, "invalid year or month")
			return
		}

		habits, err := h.habitService.ListForMonth(c.Request.Context(), userID, year, month)
		if err != nil {
			h.logger.Error("Failed to list month habits", zap.Error(err))
			respondError(c, http.StatusInternalServerError, CodeInternal, "failed to fetch habits")
			return
		}
		c.JSON(http.StatusOK, habits)
		return
	}

	habits, err := h.habitService.ListCurrent(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list habits", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to fetch habits")
		return
	}
	c.JSON(http.StatusOK, habits)
}

// Create handles POST /habits
func (h *HabitHandler) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Goal  int    `json:"goal"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "name is required")
		return
	}

	habit, err := h.habitService.Create(c.Request.Context(), currentUserID(c), req.Name, req.Goal, req.Color)
	if err != nil {
		h.logger.Error("Failed to create habit", zap.Error(err))
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to create habit")
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// Update handles PUT /habits/:id
func (h *HabitHandler) Update(c *gin.Context) {
	habitID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Goal  *int    `json:"goal"`
		Color *string `json:"color"`
		Order *int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	habit, err := h.habitService.Update(c.Request.Context(), currentUserID(c), habitID, req.Name, req.Goal, req.Color, req.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
			return
		}
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to update habit")
		return
	}
	c.JSON(http.StatusOK, habit)
}

// UpdateGoal handles PUT /habits/:id/goal
func (h *HabitHandler) UpdateGoal(c *gin.Context) {
	habitID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Goal  int `json:"goal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Year == 0 || req.Month < 1 || req.Month > 12 {
		respondError(c, http.StatusBadRequest, CodeValidation, "year, month and goal are required")
		return
	}

	err := h.habitService.UpdateGoal(c.Request.Context(), currentUserID(c), habitID, req.Year, req.Month, req.Goal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
			return
		}
		h.logger.Error("Failed to update goal", zap.Int("habit_id", habitID), zap.Error(err))
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to update goal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal updated", "goal": req.Goal})
}

// UpdateName handles PUT /habits/:id/name
func (h *HabitHandler) UpdateName(c *gin.Context) {
	habitID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		Year           int    `json:"year"`
		Month          int    `json:"month"`
		Name           string `json:"name"`
		IsCurrentMonth bool   `json:"isCurrentMonth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Year == 0 || req.Month < 1 || req.Month > 12 {
		respondError(c, http.StatusBadRequest, CodeValidation, "year, month and name are required")
		return
	}

	err := h.habitService.UpdateName(c.Request.Context(), currentUserID(c), habitID, req.Year, req.Month, req.Name, req.IsCurrentMonth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
			return
		}
		h.logger.Error("Failed to update name", zap.Int("habit_id", habitID), zap.Error(err))
		respondError(c, http.StatusBadRequest, CodeValidation, "failed to update name")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name updated", "name": req.Name})
}

// Delete handles DELETE /habits/:id (soft delete)
func (h *HabitHandler) Delete(c *gin.Context) {
	habitID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	deleted, err := h.habitService.Delete(c.Request.Context(), currentUserID(c), habitID)
	if err != nil {
		h.logger.Error("Failed to delete habit", zap.Int("habit_id", habitID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to delete habit")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// pathInt reads an integer path parameter, answering 400 on garbage.
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
