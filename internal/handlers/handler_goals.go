package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/SscSPs/carbon_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// goalHandler handles HTTP requests related to reduction goals.
type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

func newGoalHandler(gs portssvc.GoalSvcFacade) *goalHandler {
	return &goalHandler{goalService: gs}
}

// registerGoalRoutes registers routes related to reduction goals.
func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade) {
	h := newGoalHandler(goalService)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:goalID", h.getGoal)
		goals.PATCH("/:goalID", h.updateGoal)
		goals.POST("/:goalID/progress", h.updateProgress)
		goals.POST("/:goalID/milestones", h.addMilestone)
	}
}

// createGoal godoc
// @Summary Create a reduction goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create goal"
// @Security BearerAuth
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create goal")
		return
	}

	logger.Info("Goal created", slog.String("goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List reduction goals
// @Tags goals
// @Produce  json
// @Param   organizationId query string true "Organization ID"
// @Param   departmentId query string false "Department ID"
// @Param   projectId query string false "Project ID"
// @Param   status query string false "Goal status"
// @Success 200 {array} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	var q dto.ListGoalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	goals, err := h.goalService.GetGoals(c.Request.Context(), q.OrganizationID, q.ToFilter())
	if err != nil {
		respondWithError(c, err, "Failed to list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGoalResponse(goals))
}

// getGoal godoc
// @Summary Get a reduction goal
// @Tags goals
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalID} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	goal, err := h.goalService.GetGoal(c.Request.Context(), c.Param("goalID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a reduction goal
// @Description Partial update. Status changes must follow active to achieved, missed or archived, and achieved or missed to archived.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Param   goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input or status transition"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalID} [patch]
func (h *goalHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), c.Param("goalID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update goal")
		return
	}

	logger.Info("Goal updated", slog.String("goal_id", goal.GoalID), slog.String("status", string(goal.Status)))
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateProgress godoc
// @Summary Recompute goal progress
// @Description Compares the current month's footprint with the goal and updates its status
// @Tags goals
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Success 200 {object} dto.GoalProgressResponse
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalID}/progress [post]
func (h *goalHandler) updateProgress(c *gin.Context) {
	progress, err := h.goalService.UpdateGoalProgress(c.Request.Context(), c.Param("goalID"))
	if err != nil {
		respondWithError(c, err, "Failed to update goal progress")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalProgressResponse(progress))
}

// addMilestone godoc
// @Summary Add a milestone to a goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Param   milestone body dto.CreateMilestoneRequest true "Milestone"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid milestone"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{goalID}/milestones [post]
func (h *goalHandler) addMilestone(c *gin.Context) {
	var req dto.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.AddMilestone(c.Request.Context(), c.Param("goalID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to add milestone")
		return
	}
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}
